// Package jsonfile persists accounts as a single JSON document on disk.
//
// The whole account array is rewritten on every mutation (read-modify-write
// of the entire file). Writes go to a temporary file which is synced and then
// renamed into place, so a mutation that returned nil survives a crash.
package jsonfile

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gatehouse/config"
	"gatehouse/internal/domain/entity"
	"gatehouse/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// accountRecord is the file layout of one account.
type accountRecord struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"passwordHash,omitempty"`
	Profile      *profileRecord `json:"profile,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type profileRecord struct {
	FullName    string    `json:"fullName"`
	Phone       string    `json:"phone"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	CompletedAt time.Time `json:"completedAt"`
}

// Store implements repository.AccountRepository over a flat JSON file.
// A single mutex serializes all operations, so concurrent duplicate
// submissions (e.g. a double-clicked signup) resolve deterministically:
// one create wins, the other observes ErrAccountExists.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewStore is the constructor for Store, wired by Fx.
func NewStore(cfg *config.Config, logger *slog.Logger) (repository.AccountRepository, error) {
	if cfg.Store.Path == "" {
		return nil, errors.New("store path is not configured")
	}

	return &Store{
		path:   cfg.Store.Path,
		logger: logger,
	}, nil
}

// Create implements repository.AccountRepository.
func (s *Store) Create(ctx context.Context, account *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].Email == account.Email {
			return errors.Wrap(repository.ErrAccountExists, account.Email)
		}
	}

	account.ID = uuid.New()
	account.CreatedAt = time.Now().UTC()
	records = append(records, toRecord(account))

	if err := s.save(records); err != nil {
		return err
	}

	s.logger.Debug("Account created", slog.String("email", account.Email))

	return nil
}

// FindByEmail implements repository.AccountRepository.
func (s *Store) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].Email == email {
			return toEntity(&records[i])
		}
	}

	return nil, errors.Wrap(repository.ErrAccountNotFound, email)
}

// SetProfile implements repository.AccountRepository. The profile is
// overwritten as a whole and CompletedAt is stamped here, never taken from
// the caller.
func (s *Store) SetProfile(ctx context.Context, email string, fields entity.ProfileFields) (*entity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].Email != email {
			continue
		}

		records[i].Profile = &profileRecord{
			FullName:    fields.FullName,
			Phone:       fields.Phone,
			City:        fields.City,
			State:       fields.State,
			CompletedAt: time.Now().UTC(),
		}

		if err := s.save(records); err != nil {
			return nil, err
		}

		s.logger.Debug("Profile saved", slog.String("email", email))

		return profileEntity(records[i].Profile), nil
	}

	return nil, errors.Wrap(repository.ErrAccountNotFound, email)
}

// List implements repository.AccountRepository.
func (s *Store) List(ctx context.Context) ([]*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	accounts := make([]*entity.Account, 0, len(records))
	for i := range records {
		account, err := toEntity(&records[i])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

// load reads the whole account file. A missing file is an empty store.
func (s *Store) load() ([]accountRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to read account file")
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []accountRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "failed to parse account file")
	}

	return records, nil
}

// save writes the whole account file via temp file + rename.
func (s *Store) save(records []accountRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode accounts")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".accounts-*.json")
	if err != nil {
		return errors.Wrap(err, "failed to create temp account file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to write account file")
	}

	// Sync before rename; the durability contract is that an acknowledged
	// write is not lost on crash.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to sync account file")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to close account file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(err, "failed to replace account file")
	}

	return nil
}

func toRecord(account *entity.Account) accountRecord {
	record := accountRecord{
		ID:           account.ID.String(),
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
	}

	if account.Profile != nil {
		record.Profile = &profileRecord{
			FullName:    account.Profile.FullName,
			Phone:       account.Profile.Phone,
			City:        account.Profile.City,
			State:       account.Profile.State,
			CompletedAt: account.Profile.CompletedAt,
		}
	}

	return record
}

func toEntity(record *accountRecord) (*entity.Account, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return nil, errors.Wrap(err, "corrupt account id in store")
	}

	return &entity.Account{
		ID:           id,
		Email:        record.Email,
		PasswordHash: record.PasswordHash,
		Profile:      profileEntity(record.Profile),
		CreatedAt:    record.CreatedAt,
	}, nil
}

func profileEntity(record *profileRecord) *entity.Profile {
	if record == nil {
		return nil
	}

	return &entity.Profile{
		FullName:    record.FullName,
		Phone:       record.Phone,
		City:        record.City,
		State:       record.State,
		CompletedAt: record.CompletedAt,
	}
}
