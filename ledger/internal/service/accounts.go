package service

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/library-ledger/ledger/internal/errs"
	"github.com/Astemirdum/library-ledger/ledger/internal/model"
	"github.com/Astemirdum/library-ledger/ledger/internal/repository"
	"github.com/Astemirdum/library-ledger/pkg/validate"
)

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.Reader, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Reader{}, errors.Wrap(err, "bcrypt")
	}
	reader := model.Reader{
		CPF:                validate.NormalizeCPF(req.CPF),
		Name:               req.Name,
		Email:              req.Email,
		RegistrationNumber: req.RegistrationNumber,
		Role:               req.Role,
		PasswordHash:       string(hash),
		CreatedAt:          s.now(),
	}
	if err = s.repo.CreateReader(ctx, reader); err != nil {
		return model.Reader{}, err
	}
	s.log.Info("reader registered", zap.String("cpf", reader.CPF), zap.String("role", string(reader.Role)))
	return reader, nil
}

// Login checks the password and issues a token carrying cpf and role.
func (s *Service) Login(ctx context.Context, cpf, password string) (string, model.Role, error) {
	reader, err := s.repo.GetReader(ctx, validate.NormalizeCPF(cpf))
	if err != nil {
		if errors.Is(err, errs.ErrReaderNotFound) {
			return "", "", errs.ErrInvalidCredentials
		}
		return "", "", err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(reader.PasswordHash), []byte(password)); err != nil {
		return "", "", errs.ErrInvalidCredentials
	}
	if s.tokens == nil {
		return "", "", errors.New("token manager is not configured")
	}
	token, err := s.tokens.Issue(reader.CPF, string(reader.Role))
	if err != nil {
		return "", "", err
	}
	return token, reader.Role, nil
}

func (s *Service) ListReaders(ctx context.Context) ([]model.Reader, error) {
	readers, err := s.repo.ListReaders(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range readers {
		readers[i] = s.present(readers[i], now)
	}
	return readers, nil
}

func (s *Service) GetReader(ctx context.Context, cpf string) (model.Reader, error) {
	reader, err := s.repo.GetReader(ctx, cpf)
	if err != nil {
		return model.Reader{}, err
	}
	return s.present(reader, s.now()), nil
}

// errReservationsMoved means the reader joined a queue between reading the
// reservations and locking their books.
var errReservationsMoved = errors.New("reservations changed while locking")

const deleteReaderAttempts = 3

// DeleteReader removes a reader who holds no copy and owes nothing. The
// reader also leaves every reservation queue, so the books of those queues
// are locked first.
func (s *Service) DeleteReader(ctx context.Context, cpf string) (err error) {
	for i := 0; i < deleteReaderAttempts; i++ {
		if err = s.deleteReader(ctx, cpf); !errors.Is(err, errReservationsMoved) {
			break
		}
		s.log.Debug("retry reader delete", zap.String("cpf", cpf), zap.Int("attempt", i+1))
	}
	if err != nil {
		return err
	}
	s.log.Info("reader deleted", zap.String("cpf", cpf))
	return nil
}

func (s *Service) deleteReader(ctx context.Context, cpf string) error {
	pre, err := s.repo.GetReader(ctx, cpf)
	if err != nil {
		return err
	}
	bookIDs := append([]int(nil), pre.Reservations...)
	sort.Ints(bookIDs)
	return s.repo.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		locked := make(map[int]bool, len(bookIDs))
		for _, id := range bookIDs {
			if _, err := tx.LockBook(ctx, id); err != nil {
				if errors.Is(err, errs.ErrBookNotFound) {
					continue
				}
				return err
			}
			locked[id] = true
		}
		if err := tx.LockReaders(ctx, cpf); err != nil {
			return err
		}
		reader, err := tx.GetReader(ctx, cpf)
		if err != nil {
			return err
		}
		for _, id := range reader.Reservations {
			if !locked[id] {
				return errReservationsMoved
			}
		}
		now := s.now()
		for _, l := range reader.Loans {
			if l.Status.Open() {
				return errs.ErrReaderHasLoans
			}
		}
		if s.rules.ReaderDebt(reader.Loans, now) > 0 {
			return errs.ErrReaderHasLoans
		}
		return tx.DeleteReader(ctx, cpf)
	})
}

