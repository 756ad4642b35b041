package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/talentfit/internal/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is used when BCRYPT_COST is unset. Demo users are hashed on
	// every start, so it stays at the accepted floor.
	DefaultBcryptCost = 10
	maxBcryptCost     = 14
)

// Hashing controls how login passwords are hashed and compared.
type Hashing struct {
	Cost   int
	Pepper string
}

// HashingFromEnv reads BCRYPT_COST and PASSWORD_PEPPER.
func HashingFromEnv() (Hashing, error) {
	h := Hashing{Cost: DefaultBcryptCost, Pepper: os.Getenv("PASSWORD_PEPPER")}
	if v := strings.TrimSpace(os.Getenv("BCRYPT_COST")); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return h, fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		h.Cost = cost
	}
	if h.Cost < DefaultBcryptCost || h.Cost > maxBcryptCost {
		return h, fmt.Errorf("BCRYPT_COST %d out of range [%d, %d]", h.Cost, DefaultBcryptCost, maxBcryptCost)
	}
	return h, nil
}

func (h Hashing) secret(password string) []byte {
	return []byte(password + h.Pepper)
}

func (h Hashing) hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword(h.secret(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h Hashing) matches(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), h.secret(password)) == nil
}

// UserConfig is a configured login. PasswordHash is a bcrypt hash; Password is accepted
// for local setups and hashed at startup.
type UserConfig struct {
	Username     string `json:"username" yaml:"username" validate:"required"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty" validate:"required_without=PasswordHash"`
	PasswordHash string `json:"password_hash,omitempty" yaml:"password_hash,omitempty" validate:"required_without=Password"`
	Role         string `json:"role" yaml:"role" validate:"required,oneof=user admin"`
}

// Validate validates the UserConfig using the validator.
func (u *UserConfig) Validate() error {
	validate := validator.New()
	return validate.Struct(u)
}

// DemoUsers are the logins available when none are configured.
func DemoUsers() []UserConfig {
	return []UserConfig{
		{Username: "user", Password: "userpass", Role: string(types.RoleUser)},
		{Username: "admin", Password: "adminpass", Role: string(types.RoleAdmin)},
	}
}

// Account is a resolved login with a bcrypt hash.
type Account struct {
	Username     string
	PasswordHash string
	Role         types.Role
}

// Credentials checks usernames and passwords against resolved accounts.
type Credentials struct {
	hashing  Hashing
	accounts map[string]Account
}

// NewCredentials resolves users into accounts, hashing plain-text passwords with h.
// An empty users list falls back to DemoUsers.
func NewCredentials(h Hashing, users []UserConfig) (*Credentials, error) {
	if len(users) == 0 {
		users = DemoUsers()
	}

	accounts := make(map[string]Account, len(users))
	for i := range users {
		acct, err := h.account(users[i])
		if err != nil {
			return nil, fmt.Errorf("invalid user %q: %w", users[i].Username, err)
		}
		key := strings.ToLower(acct.Username)
		if _, dup := accounts[key]; dup {
			return nil, fmt.Errorf("duplicate user %q", acct.Username)
		}
		accounts[key] = acct
	}

	return &Credentials{hashing: h, accounts: accounts}, nil
}

func (h Hashing) account(u UserConfig) (Account, error) {
	if err := u.Validate(); err != nil {
		return Account{}, err
	}
	role, err := types.ParseRole(u.Role)
	if err != nil {
		return Account{}, err
	}

	acct := Account{Username: strings.TrimSpace(u.Username), PasswordHash: u.PasswordHash, Role: role}
	if acct.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(acct.PasswordHash)); err != nil {
			return Account{}, fmt.Errorf("password_hash is not a bcrypt hash: %w", err)
		}
		return acct, nil
	}
	if acct.PasswordHash, err = h.hash(u.Password); err != nil {
		return Account{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return acct, nil
}

// Check returns the account's role when username and password match.
func (c *Credentials) Check(username, password string) (types.Role, bool) {
	acct, ok := c.accounts[strings.ToLower(strings.TrimSpace(username))]
	if !ok || !c.hashing.matches(password, acct.PasswordHash) {
		return "", false
	}
	return acct.Role, true
}
