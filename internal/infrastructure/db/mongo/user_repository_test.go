package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/storefront/shop-api/internal/core/domain"
)

func newMockRepo(mt *mtest.T) *UserRepository {
	repo := NewUserRepository(mt.DB, time.Second)
	repo.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return repo
}

func userDoc(id int64, name, email string) bson.D {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "id", Value: id},
		{Key: "name", Value: name},
		{Key: "email", Value: email},
		{Key: "password", Value: "$2a$10$hash"},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: created},
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + usersCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userDoc(7, "Ada", "ada@example.com")),
		)

		got, err := newMockRepo(mt).FindByEmail(context.Background(), "ada@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != 7 || got.Name != "Ada" || got.PasswordHash != "$2a$10$hash" {
			t.Fatalf("unexpected user %+v", got)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + usersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := newMockRepo(mt).FindByEmail(context.Background(), "nobody@example.com")
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Message: "boom", Name: "BadValue",
		}))

		_, err := newMockRepo(mt).FindByEmail(context.Background(), "ada@example.com")
		if err == nil || errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected backend error, got %v", err)
		}
	})
}

func TestUserRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes all documents", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + usersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			userDoc(1, "Ada", "ada@example.com"),
			userDoc(2, "Linus", "linus@example.com"),
		))

		users, err := newMockRepo(mt).List(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(users) != 2 || users[1].Email != "linus@example.com" {
			t.Fatalf("unexpected users %+v", users)
		}
	})
}

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns sequence id", func(mt *mtest.T) {
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: bson.D{{Key: "_id", Value: userSequence}, {Key: "seq", Value: int64(3)}}}},
			mtest.CreateSuccessResponse(),
		)

		got, err := newMockRepo(mt).Create(context.Background(), &domain.User{
			Name: "Ada", Email: "ada@example.com", PasswordHash: "hash",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != 3 {
			t.Fatalf("expected id 3, got %d", got.ID)
		}
		if got.CreatedAt.IsZero() || !got.UpdatedAt.Equal(got.CreatedAt) {
			t.Fatalf("expected timestamps to be filled, got %+v", got)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: bson.D{{Key: "_id", Value: userSequence}, {Key: "seq", Value: int64(4)}}}},
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}),
		)

		_, err := newMockRepo(mt).Create(context.Background(), &domain.User{Email: "ada@example.com"})
		if !errors.Is(err, domain.ErrUserExists) {
			t.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("counter failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Message: "boom", Name: "BadValue",
		}))

		_, err := newMockRepo(mt).Create(context.Background(), &domain.User{Email: "ada@example.com"})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestUserRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns updated document", func(mt *mtest.T) {
		doc := userDoc(1, "Ada Lovelace", "ada@example.com")
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: doc}})

		name := "Ada Lovelace"
		got, err := newMockRepo(mt).Update(context.Background(), "ada@example.com", domain.UserPatch{Name: &name})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "Ada Lovelace" {
			t.Fatalf("unexpected name %q", got.Name)
		}
	})

	mt.Run("unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		name := "x"
		_, err := newMockRepo(mt).Update(context.Background(), "nobody@example.com", domain.UserPatch{Name: &name})
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}
