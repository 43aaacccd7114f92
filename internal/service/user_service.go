package service

import (
	"context"
	"strings"
	"time"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/auth"
	"github.com/conduit/internal/db"
	"github.com/conduit/internal/query"
	"gorm.io/gorm"
)

const invalidCredentials = "email or password is invalid"

// UserService registers accounts and maintains their profile fields.
type UserService struct {
	run    *Runner
	hasher *auth.Hasher
}

// RegisterInput 注册所需字段
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UserUpdate carries sparse fields; nil means unchanged.
type UserUpdate struct {
	Email    *string
	Username *string
	Password *string
	Bio      *string
	Image    *string
}

func NewUserService(run *Runner, hasher *auth.Hasher) *UserService {
	return &UserService{run: run, hasher: hasher}
}

// Register hashes the password before opening the transaction.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*db.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, apperr.BadRequest("username, email and password are required")
	}

	hashed, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, s.run.report("user.register", err)
	}

	user := db.User{Username: input.Username, Email: input.Email, Password: hashed}
	err = s.run.inTx(ctx, "user.register", func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return conflictOnDuplicate(err, "username or email already taken")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login returns the account for email when password matches. Unknown
// emails and wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, email, password string) (*db.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.BadRequest("email and password are required")
	}

	var user db.User
	err := s.run.inTx(ctx, "user.login", func(tx *gorm.DB) error {
		return findUser(tx, query.UserByEmail, email, &user, invalidCredentials)
	})
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Conflict(invalidCredentials)
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, password, user.Password)
	if err != nil {
		return nil, s.run.report("user.login", err)
	}
	if !ok {
		return nil, apperr.Conflict(invalidCredentials)
	}
	return &user, nil
}

// Get loads the account behind an authenticated id.
func (s *UserService) Get(ctx context.Context, id int64) (*db.User, error) {
	var user db.User
	err := s.run.inTx(ctx, "user.get", func(tx *gorm.DB) error {
		return findUser(tx, query.UserByID, id, &user, "user not found")
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies only the supplied fields. With nothing supplied no
// statement runs and the stored row is returned as is.
func (s *UserService) Update(ctx context.Context, id int64, update UserUpdate) (*db.User, error) {
	for _, field := range []struct {
		name  string
		value *string
	}{{"email", update.Email}, {"username", update.Username}, {"password", update.Password}} {
		if field.value != nil && strings.TrimSpace(*field.value) == "" {
			return nil, apperr.BadRequest(field.name + " must not be empty")
		}
	}

	if update.Password != nil {
		hashed, err := s.hasher.Hash(ctx, *update.Password)
		if err != nil {
			return nil, s.run.report("user.update", err)
		}
		update.Password = &hashed
	}

	set := query.Set().
		Add("email", trimmed(update.Email)).
		Add("username", trimmed(update.Username)).
		Add("password", update.Password).
		Add("bio", update.Bio).
		Add("image", update.Image)

	var statement string
	var args []any
	if set.Added() > 0 {
		setClause, setArgs := set.Add("updated_at", time.Now().UTC()).Finish()
		whereClause, whereArgs := query.Where(setArgs...).Add("id", id).Finish()
		statement, args = "UPDATE users "+setClause+whereClause, whereArgs
	}

	var user db.User
	err := s.run.inTx(ctx, "user.update", func(tx *gorm.DB) error {
		if statement != "" {
			if err := tx.Exec(statement, args...).Error; err != nil {
				return conflictOnDuplicate(err, "username or email already taken")
			}
		}
		return findUser(tx, query.UserByID, id, &user, "user not found")
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func findUser(tx *gorm.DB, sql string, key any, dst *db.User, notFound string) error {
	result := tx.Raw(sql, key).Scan(dst)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(notFound)
	}
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
