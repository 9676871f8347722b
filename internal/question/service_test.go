package question

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/quiz"
	"github.com/iqnite-app/iqnite-api/internal/user"
)

type fakeQuestionRepo struct {
	questions map[string]*Question
	failBatch bool
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[string]*Question)}
}

func (r *fakeQuestionRepo) Create(q *Question) error {
	q.ID = uuid.New()
	r.questions[q.ID.String()] = q
	return nil
}

func (r *fakeQuestionRepo) CreateBatch(questions []*Question) error {
	if r.failBatch {
		return errors.New("insert failed")
	}
	for _, q := range questions {
		q.ID = uuid.New()
		r.questions[q.ID.String()] = q
	}
	return nil
}

func (r *fakeQuestionRepo) FindByID(id string) (*Question, error) {
	return r.questions[id], nil
}

func (r *fakeQuestionRepo) FindByQuiz(quizID string) ([]*Question, error) {
	var out []*Question
	for _, q := range r.questions {
		if q.QuizID.String() == quizID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) CountByQuiz(quizID string) (int64, error) {
	list, _ := r.FindByQuiz(quizID)
	return int64(len(list)), nil
}

func (r *fakeQuestionRepo) Update(q *Question) error {
	r.questions[q.ID.String()] = q
	return nil
}

func (r *fakeQuestionRepo) Delete(id string) error {
	delete(r.questions, id)
	return nil
}

func (r *fakeQuestionRepo) DeleteByQuiz(quizID string) error {
	for id, q := range r.questions {
		if q.QuizID.String() == quizID {
			delete(r.questions, id)
		}
	}
	return nil
}

type fakeAuthorizer struct {
	quiz *quiz.Quiz
}

func (a *fakeAuthorizer) Authorize(id string, caller quiz.Caller) (*quiz.Quiz, error) {
	if a.quiz == nil || a.quiz.ID.String() != id {
		return nil, apperror.ErrNotFound
	}
	if a.quiz.OwnerID != caller.UserID && caller.Role != user.RoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return a.quiz, nil
}

type fakeBlobStore struct {
	blobs map[string]string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string]string)}
}

func (s *fakeBlobStore) Put(ctx context.Context, id, data string) error {
	s.blobs[id] = data
	return nil
}

func (s *fakeBlobStore) Get(ctx context.Context, id string) (string, error) {
	data, ok := s.blobs[id]
	if !ok {
		return "", apperror.ErrNotFound
	}
	return data, nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, id string) error {
	delete(s.blobs, id)
	return nil
}

func fixtures() (*fakeQuestionRepo, *fakeBlobStore, *quiz.Quiz, quiz.Caller, QuestionService) {
	owner := uuid.New()
	qz := &quiz.Quiz{
		ID:      uuid.New(),
		OwnerID: owner,
		Title:   "Capitals",
		Status:  quiz.StatusDraft,
	}
	repo := newFakeQuestionRepo()
	blobs := newFakeBlobStore()
	service := NewService(repo, &fakeAuthorizer{quiz: qz}, blobs)
	caller := quiz.Caller{UserID: owner, Role: user.RoleOrganizer}
	return repo, blobs, qz, caller, service
}

func item(text string, order *int) CreateQuestionDTO {
	return CreateQuestionDTO{
		Type:          TypeShortAnswer,
		Text:          text,
		CorrectAnswer: "Paris",
		OrderIndex:    order,
	}
}

func TestBulkCreate(t *testing.T) {
	t.Run("OrderDefaultsToArrayPosition", func(t *testing.T) {
		repo, _, qz, caller, service := fixtures()

		created, err := service.BulkCreate(context.Background(), caller, BulkCreateDTO{
			QuizID: qz.ID.String(),
			Questions: []CreateQuestionDTO{
				item("q0", nil),
				item("q1", nil),
				item("q2", nil),
			},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(created) != 3 {
			t.Fatalf("Expected 3 questions, got %d", len(created))
		}
		for i, q := range created {
			if q.OrderIndex != i {
				t.Errorf("Question %d: expected order %d, got %d", i, i, q.OrderIndex)
			}
		}
		if len(repo.questions) != 3 {
			t.Errorf("Expected 3 persisted questions, got %d", len(repo.questions))
		}
	})

	t.Run("ExplicitOrderWins", func(t *testing.T) {
		_, _, qz, caller, service := fixtures()

		five := 5
		created, err := service.BulkCreate(context.Background(), caller, BulkCreateDTO{
			QuizID: qz.ID.String(),
			Questions: []CreateQuestionDTO{
				item("q0", nil),
				item("q1", &five),
			},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if created[0].OrderIndex != 0 || created[1].OrderIndex != 5 {
			t.Errorf("Expected orders 0 and 5, got %d and %d", created[0].OrderIndex, created[1].OrderIndex)
		}
	})

	t.Run("InsertFailurePersistsNothing", func(t *testing.T) {
		repo, _, qz, caller, service := fixtures()
		repo.failBatch = true

		_, err := service.BulkCreate(context.Background(), caller, BulkCreateDTO{
			QuizID: qz.ID.String(),
			Questions: []CreateQuestionDTO{
				item("q0", nil),
				item("q1", nil),
			},
		})
		if err == nil {
			t.Fatal("Expected an error")
		}
		if len(repo.questions) != 0 {
			t.Errorf("Expected no persisted questions, got %d", len(repo.questions))
		}
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		repo, _, qz, _, service := fixtures()

		stranger := quiz.Caller{UserID: uuid.New(), Role: user.RoleOrganizer}
		_, err := service.BulkCreate(context.Background(), stranger, BulkCreateDTO{
			QuizID:    qz.ID.String(),
			Questions: []CreateQuestionDTO{item("q0", nil)},
		})
		if !errors.Is(err, apperror.ErrForbidden) {
			t.Fatalf("Expected ErrForbidden, got %v", err)
		}
		if len(repo.questions) != 0 {
			t.Errorf("Expected no persisted questions, got %d", len(repo.questions))
		}
	})
}

func TestBulkCreateDTOValidate(t *testing.T) {
	qz := uuid.New().String()

	dto := BulkCreateDTO{QuizID: qz, Questions: []CreateQuestionDTO{
		item("ok", nil),
		{Type: TypeShortAnswer, Text: "", CorrectAnswer: "x"},
	}}
	if err := dto.Validate(); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Expected ErrValidation for blank text, got %v", err)
	}

	empty := BulkCreateDTO{QuizID: qz}
	if err := empty.Validate(); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Expected ErrValidation for empty batch, got %v", err)
	}
}

func TestCreateOrderDefaultsToCount(t *testing.T) {
	repo, _, qz, caller, service := fixtures()

	for i := 0; i < 2; i++ {
		dto := item("existing", nil)
		dto.QuizID = qz.ID.String()
		if _, err := service.Create(context.Background(), caller, dto); err != nil {
			t.Fatalf("Seed create failed: %v", err)
		}
	}

	dto := item("next", nil)
	dto.QuizID = qz.ID.String()
	q, err := service.Create(context.Background(), caller, dto)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if q.OrderIndex != 2 {
		t.Errorf("Expected order 2, got %d", q.OrderIndex)
	}
	if q.Points != 1 {
		t.Errorf("Expected default 1 point, got %d", q.Points)
	}
	if len(repo.questions) != 3 {
		t.Errorf("Expected 3 persisted questions, got %d", len(repo.questions))
	}
}

func TestQuestionImages(t *testing.T) {
	repo, blobs, qz, caller, service := fixtures()

	dto := item("with image", nil)
	dto.QuizID = qz.ID.String()
	q, err := service.Create(context.Background(), caller, dto)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	q, err = service.UploadImage(context.Background(), caller, q.ID.String(), "base64-payload")
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if q.ImageID == nil {
		t.Fatal("Expected an image id on the question")
	}

	data, err := service.GetImage(context.Background(), q.ID.String())
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if data != "base64-payload" {
		t.Errorf("Expected stored payload, got %q", data)
	}

	if err := service.Remove(context.Background(), caller, q.ID.String()); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(repo.questions) != 0 {
		t.Error("Expected question to be deleted")
	}
	if len(blobs.blobs) != 0 {
		t.Error("Expected image blob to be deleted with the question")
	}
}
