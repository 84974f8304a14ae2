package mock

import (
	"time"

	"github.com/anvena/launchpad/db"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	// --- Mock DbAuth Methods ---
	GetUserByEmailFunc      func(email string) (*db.User, error)
	GetUserByIdFunc         func(id string) (*db.User, error)
	GetUserByGithubIDFunc   func(githubID int64) (*db.User, error)
	CreateUserFunc          func(user db.User) (*db.User, error)
	VerifyEmailFunc         func(userID string) error
	UpdatePasswordFunc      func(userID string, newPassword string) error
	UpdateEmailFunc         func(userID string, newEmail string) error
	UpdateLastLoginFunc     func(userID string) error
	UpdateOauth2ProfileFunc func(userID, name, avatar string) error

	// --- Mock DbCode Methods ---
	InsertCodeFunc  func(code db.VerificationCode) error
	ConsumeCodeFunc func(email, code string, now time.Time) (*db.VerificationCode, error)

	// --- Mock DbQueue Methods ---
	InsertJobFunc              func(job db.Job) error
	ClaimFunc                  func(limit int) ([]*db.Job, error)
	MarkCompletedFunc          func(jobID int64) error
	MarkFailedFunc             func(jobID int64, errMsg string) error
	MarkRecurrentCompletedFunc func(completedJobID int64, newJob db.Job) error
}

// --- Implement DbAuth ---

func (m *Db) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil // Default: not found
}

func (m *Db) GetUserById(id string) (*db.User, error) {
	if m.GetUserByIdFunc != nil {
		return m.GetUserByIdFunc(id)
	}
	return nil, nil // Default: not found
}

func (m *Db) GetUserByGithubID(githubID int64) (*db.User, error) {
	if m.GetUserByGithubIDFunc != nil {
		return m.GetUserByGithubIDFunc(githubID)
	}
	return nil, nil // Default: not found
}

func (m *Db) CreateUser(user db.User) (*db.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(user)
	}
	// Default: return the user passed in, assuming success
	user.ID = "mock-user-id"
	return &user, nil
}

func (m *Db) VerifyEmail(userID string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(userID)
	}
	return nil
}

func (m *Db) UpdatePassword(userID string, newPassword string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(userID, newPassword)
	}
	return nil
}

func (m *Db) UpdateEmail(userID string, newEmail string) error {
	if m.UpdateEmailFunc != nil {
		return m.UpdateEmailFunc(userID, newEmail)
	}
	return nil
}

func (m *Db) UpdateLastLogin(userID string) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(userID)
	}
	return nil
}

func (m *Db) UpdateOauth2Profile(userID, name, avatar string) error {
	if m.UpdateOauth2ProfileFunc != nil {
		return m.UpdateOauth2ProfileFunc(userID, name, avatar)
	}
	return nil
}

// --- Implement DbCode ---

func (m *Db) InsertCode(code db.VerificationCode) error {
	if m.InsertCodeFunc != nil {
		return m.InsertCodeFunc(code)
	}
	return nil
}

func (m *Db) ConsumeCode(email, code string, now time.Time) (*db.VerificationCode, error) {
	if m.ConsumeCodeFunc != nil {
		return m.ConsumeCodeFunc(email, code, now)
	}
	return nil, db.ErrCodeNotFound // Default: no matching code
}

// --- Implement DbQueue ---

func (m *Db) InsertJob(job db.Job) error {
	if m.InsertJobFunc != nil {
		return m.InsertJobFunc(job)
	}
	return nil
}

func (m *Db) Claim(limit int) ([]*db.Job, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(limit)
	}
	return []*db.Job{}, nil // Default: no jobs claimed
}

func (m *Db) MarkCompleted(jobID int64) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(jobID)
	}
	return nil
}

func (m *Db) MarkFailed(jobID int64, errMsg string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(jobID, errMsg)
	}
	return nil
}

func (m *Db) MarkRecurrentCompleted(completedJobID int64, newJob db.Job) error {
	if m.MarkRecurrentCompletedFunc != nil {
		return m.MarkRecurrentCompletedFunc(completedJobID, newJob)
	}
	return nil
}
