package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/estagiarios/e-commerce/internal/core/domain"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	userSequence       = "user_id"

	nationalIDIndex = "national_id_unique"
	emailIndex      = "email_unique"

	birthDateLayout = "2006-01-02"
)

// UserRepository implements ports.UserRepository on MongoDB. Users get
// sequential numeric ids from a counters document.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoUser struct {
	ID           int64    `bson:"_id"`
	Name         string   `bson:"name"`
	NationalID   string   `bson:"national_id"`
	BirthDate    string   `bson:"birth_date"`
	Email        string   `bson:"email"`
	PasswordHash string   `bson:"password_hash"`
	Roles        []string `bson:"roles"`
	Active       bool     `bson:"active"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

// EnsureIndexes creates the unique indexes that back the directory's
// uniqueness checks against concurrent registrations.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "national_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(nationalIDIndex),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndex),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"national_id": nationalID})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByNationalIDAndBirthDate(ctx context.Context, nationalID string, birthDate time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"national_id": nationalID,
		"birth_date":  birthDate.UTC().Format(birthDateLayout),
	})
}

func (r *UserRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	return r.exists(ctx, bson.M{"national_id": nationalID})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

// Save inserts user when its ID is zero and replaces the stored document
// otherwise.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == 0 {
		return r.insert(ctx, user)
	}

	doc := toMongoUser(user)
	res, err := r.users.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("replace user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return toDomainUser(doc)
}

func (r *UserRepository) insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := toMongoUser(user)
	doc.ID = id
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return toDomainUser(doc)
}

func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(&mu)
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.users.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// duplicateError maps a unique index violation to the matching domain error,
// or returns nil when err is not a duplicate key error.
func duplicateError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if strings.Contains(err.Error(), nationalIDIndex) || strings.Contains(err.Error(), "national_id") {
		return domain.ErrDuplicateIdentifier
	}
	return domain.ErrDuplicateEmail
}

func toMongoUser(u *domain.User) *mongoUser {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return &mongoUser{
		ID:           u.ID,
		Name:         u.Name,
		NationalID:   u.NationalID,
		BirthDate:    u.BirthDate.UTC().Format(birthDateLayout),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
}

func toDomainUser(mu *mongoUser) (*domain.User, error) {
	birthDate, err := time.Parse(birthDateLayout, mu.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("decode user %d: birth date: %w", mu.ID, err)
	}

	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, s := range mu.Roles {
		role, err := domain.ParseRole(s)
		if err != nil {
			return nil, fmt.Errorf("decode user %d: %w", mu.ID, err)
		}
		roles = append(roles, role)
	}

	return &domain.User{
		ID:           mu.ID,
		Name:         mu.Name,
		NationalID:   mu.NationalID,
		BirthDate:    birthDate,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Roles:        roles,
		Active:       mu.Active,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
