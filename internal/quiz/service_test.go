package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/user"
)

type fakeQuizRepo struct {
	quizzes map[string]Quiz
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: make(map[string]Quiz)}
}

func (r *fakeQuizRepo) Create(q *Quiz) error {
	q.ID = uuid.New()
	r.quizzes[q.ID.String()] = *q
	return nil
}

func (r *fakeQuizRepo) FindByID(id string) (*Quiz, error) {
	q, ok := r.quizzes[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (r *fakeQuizRepo) FindByOwner(ownerID string) ([]*Quiz, error) {
	var out []*Quiz
	for _, q := range r.quizzes {
		if q.OwnerID.String() == ownerID {
			q := q
			out = append(out, &q)
		}
	}
	return out, nil
}

func (r *fakeQuizRepo) Update(q *Quiz) error {
	r.quizzes[q.ID.String()] = *q
	return nil
}

func (r *fakeQuizRepo) Delete(id string) error {
	delete(r.quizzes, id)
	return nil
}

type fakeCounter struct {
	counts map[string]int64
}

func (c *fakeCounter) CountByQuiz(quizID string) (int64, error) {
	return c.counts[quizID], nil
}

func (c *fakeCounter) DeleteByQuiz(quizID string) error {
	delete(c.counts, quizID)
	return nil
}

func TestQuizOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQuizRepo()
	counter := &fakeCounter{counts: make(map[string]int64)}
	service := NewService(repo, counter)

	owner := uuid.New()
	q, err := service.Create(ctx, owner, CreateQuizDTO{Title: "Geography", PassingScore: 60})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.Status != StatusDraft {
		t.Errorf("Expected a draft quiz, got %s", q.Status)
	}
	if !q.AllowReview {
		t.Error("Expected review to be allowed by default")
	}

	stranger := Caller{UserID: uuid.New(), Role: user.RoleOrganizer}
	title := "renamed"
	if _, err := service.Update(ctx, q.ID.String(), stranger, UpdateQuizDTO{Title: &title}); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for a non-owner update, got %v", err)
	}
	if err := service.Delete(ctx, q.ID.String(), stranger); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for a non-owner delete, got %v", err)
	}

	// admins act on any quiz
	admin := Caller{UserID: uuid.New(), Role: user.RoleAdmin}
	if _, err := service.Update(ctx, q.ID.String(), admin, UpdateQuizDTO{Title: &title}); err != nil {
		t.Errorf("Expected the admin update to succeed, got %v", err)
	}

	updated, err := service.Update(ctx, q.ID.String(), Caller{UserID: owner, Role: user.RoleOrganizer}, UpdateQuizDTO{Title: &title})
	if err != nil {
		t.Fatalf("Owner update failed: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("Expected the title to change, got %q", updated.Title)
	}
}

func TestQuizPublish(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQuizRepo()
	counter := &fakeCounter{counts: make(map[string]int64)}
	service := NewService(repo, counter)

	owner := uuid.New()
	caller := Caller{UserID: owner, Role: user.RoleOrganizer}
	q, err := service.Create(ctx, owner, CreateQuizDTO{Title: "Geography"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := service.Publish(ctx, q.ID.String(), caller); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Expected ErrValidation for an empty quiz, got %v", err)
	}

	counter.counts[q.ID.String()] = 3
	published, err := service.Publish(ctx, q.ID.String(), caller)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if published.Status != StatusPublished {
		t.Errorf("Expected PUBLISHED, got %s", published.Status)
	}
}

func TestQuizDeleteCascadesQuestions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQuizRepo()
	counter := &fakeCounter{counts: make(map[string]int64)}
	service := NewService(repo, counter)

	owner := uuid.New()
	q, err := service.Create(ctx, owner, CreateQuizDTO{Title: "Geography"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	counter.counts[q.ID.String()] = 2

	if err := service.Delete(ctx, q.ID.String(), Caller{UserID: owner, Role: user.RoleOrganizer}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := repo.quizzes[q.ID.String()]; ok {
		t.Error("Expected the quiz to be deleted")
	}
	if _, ok := counter.counts[q.ID.String()]; ok {
		t.Error("Expected the quiz questions to be deleted with it")
	}
}

func TestQuizGetMissing(t *testing.T) {
	service := NewService(newFakeQuizRepo(), &fakeCounter{})

	_, err := service.Get(context.Background(), uuid.NewString())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}
