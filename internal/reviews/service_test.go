package reviews

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
)

type reviewKey struct {
	clientID uuid.UUID
	dishID   uuid.UUID
}

type fakeRepository struct {
	reviews   map[reviewKey]*models.Review
	dishCooks map[uuid.UUID]uuid.UUID
	received  map[reviewKey]bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		reviews:   map[reviewKey]*models.Review{},
		dishCooks: map[uuid.UUID]uuid.UUID{},
		received:  map[reviewKey]bool{},
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Upsert(ctx context.Context, review *models.Review) error {
	key := reviewKey{clientID: review.ClientID, dishID: review.DishID}
	if existing, ok := f.reviews[key]; ok {
		existing.Rating = review.Rating
		existing.Comment = review.Comment
		existing.UpdatedAt = time.Now()
		return nil
	}
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	f.reviews[key] = review
	return nil
}

func (f *fakeRepository) FindByClientAndDish(ctx context.Context, clientID, dishID uuid.UUID) (*models.Review, error) {
	if review, ok := f.reviews[reviewKey{clientID: clientID, dishID: dishID}]; ok {
		copied := *review
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByDish(ctx context.Context, dishID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	for _, review := range f.reviews {
		if review.DishID == dishID {
			rows = append(rows, *review)
		}
	}
	return rows, nil
}

func (f *fakeRepository) ListByCook(ctx context.Context, cookID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	for _, review := range f.reviews {
		if f.dishCooks[review.DishID] == cookID {
			rows = append(rows, *review)
		}
	}
	return rows, nil
}

func (f *fakeRepository) ClientReceivedDish(ctx context.Context, clientID, dishID uuid.UUID) (bool, error) {
	return f.received[reviewKey{clientID: clientID, dishID: dishID}], nil
}

func newReviewService(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestServiceSubmitRequiresDeliveredOrder(t *testing.T) {
	repo := newFakeRepository()
	svc := newReviewService(repo)
	clientID := uuid.New()
	dishID := uuid.New()

	_, err := svc.Submit(context.Background(), clientID, SubmitReviewRequest{DishID: dishID.String(), Rating: 4})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected rejection without delivered order, got %v", err)
	}
	if status := pkgerrors.MetadataFor(pkgerrors.As(err).Code()).HTTPStatus; status != http.StatusBadRequest {
		t.Fatalf("review gate should surface as 400, got %d", status)
	}

	repo.received[reviewKey{clientID: clientID, dishID: dishID}] = true
	review, err := svc.Submit(context.Background(), clientID, SubmitReviewRequest{DishID: dishID.String(), Rating: 4, Comment: "very good"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if review.Rating != 4 || review.Comment != "very good" {
		t.Fatalf("unexpected review %+v", review)
	}
}

func TestServiceSubmitOverwritesExisting(t *testing.T) {
	repo := newFakeRepository()
	svc := newReviewService(repo)
	clientID := uuid.New()
	dishID := uuid.New()
	repo.received[reviewKey{clientID: clientID, dishID: dishID}] = true

	first, err := svc.Submit(context.Background(), clientID, SubmitReviewRequest{DishID: dishID.String(), Rating: 2, Comment: "cold"})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	second, err := svc.Submit(context.Background(), clientID, SubmitReviewRequest{DishID: dishID.String(), Rating: 5, Comment: "much better"})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected the same review row")
	}
	if second.Rating != 5 || second.Comment != "much better" {
		t.Fatalf("expected overwrite, got %+v", second)
	}
	if len(repo.reviews) != 1 {
		t.Fatalf("expected single row, got %d", len(repo.reviews))
	}
}

func TestServiceSubmitValidatesRating(t *testing.T) {
	svc := newReviewService(newFakeRepository())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), uuid.New(), SubmitReviewRequest{DishID: uuid.NewString(), Rating: rating})
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for rating %d, got %v", rating, err)
		}
	}
}

func TestServiceMineNotFound(t *testing.T) {
	svc := newReviewService(newFakeRepository())

	_, err := svc.Mine(context.Background(), uuid.New(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceReceivedScopesByCook(t *testing.T) {
	repo := newFakeRepository()
	svc := newReviewService(repo)

	cookID := uuid.New()
	ownDish := uuid.New()
	otherDish := uuid.New()
	repo.dishCooks[ownDish] = cookID
	repo.dishCooks[otherDish] = uuid.New()

	clientID := uuid.New()
	repo.received[reviewKey{clientID: clientID, dishID: ownDish}] = true
	repo.received[reviewKey{clientID: clientID, dishID: otherDish}] = true
	if _, err := svc.Submit(context.Background(), clientID, SubmitReviewRequest{DishID: ownDish.String(), Rating: 5}); err != nil {
		t.Fatalf("submit own: %v", err)
	}
	if _, err := svc.Submit(context.Background(), clientID, SubmitReviewRequest{DishID: otherDish.String(), Rating: 3}); err != nil {
		t.Fatalf("submit other: %v", err)
	}

	received, err := svc.Received(context.Background(), cookID)
	if err != nil {
		t.Fatalf("received: %v", err)
	}
	if len(received) != 1 || received[0].DishID != ownDish {
		t.Fatalf("expected only own dish review, got %+v", received)
	}

	public, err := svc.ByDish(context.Background(), ownDish)
	if err != nil {
		t.Fatalf("by dish: %v", err)
	}
	if len(public) != 1 {
		t.Fatalf("expected 1 review, got %d", len(public))
	}
}
