package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	doctorerrors "clinicbook/internal/doctors/errors"
	"clinicbook/internal/doctors/repository"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/model"
)

type DoctorService interface {
	GetByID(ctx context.Context, id int64) (*model.Doctor, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Doctor, int64, error)
}

type doctorService struct {
	repo repository.DoctorRepository
	cfg  *config.Config
}

func NewDoctorService(repo repository.DoctorRepository, cfg *config.Config) DoctorService {
	return &doctorService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *doctorService) GetByID(ctx context.Context, id int64) (*model.Doctor, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("Doctor ID must be a positive integer")
	}

	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, doctorerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Doctor", strconv.FormatInt(id, 10))
		}
		return nil, apperrors.Internal("Failed to retrieve doctor", err)
	}

	return doctor, nil
}

func (s *doctorService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Doctor, int64, error) {
	var count int64
	var doctors []*model.Doctor
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count doctors", "error", errCount)
			errCount = apperrors.Internal("Failed to count doctors", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		doctors, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list doctors", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve doctors", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return doctors, count, nil
}
