package schedule

import (
	"context"
	"errors"
	"time"

	"trainerbook/internal/apperr"
	"trainerbook/internal/logger"
	"trainerbook/internal/metrics"
	"trainerbook/internal/trainer"
)

type Service interface {
	GenerateAvailability(ctx context.Context, rule Rule) (int, error)
	SetSlotStatus(ctx context.Context, trainerID int, start time.Time, status Status) (*Slot, error)
	DeleteSlot(ctx context.Context, trainerID int, start time.Time) error
	ListSlots(ctx context.Context, trainerID int, from, to time.Time) ([]Slot, error)
}

type service struct {
	repo        Repository
	trainerRepo trainer.Repository
}

func NewService(repo Repository, trainerRepo trainer.Repository) Service {
	return &service{
		repo:        repo,
		trainerRepo: trainerRepo,
	}
}

// GenerateAvailability expands the rule and writes every candidate slot
// that does not exist yet. Existing slots of any status stay untouched,
// so the operation is idempotent and never regresses a booked or
// manually edited slot. A failed write for one candidate is logged and
// the rest of the batch continues; re-running the same rule fills any
// gap a partial failure left behind.
func (s *service) GenerateAvailability(ctx context.Context, rule Rule) (int, error) {
	normalized := rule.withDefaults()
	if !normalized.valid() {
		return 0, apperr.New(apperr.InvalidArgument, "invalid availability rule")
	}

	if _, err := s.trainerRepo.GetByID(ctx, normalized.TrainerID); err != nil {
		if errors.Is(err, trainer.ErrTrainerNotFound) {
			return 0, apperr.New(apperr.NotFound, "trainer not found")
		}
		return 0, apperr.Wrap(apperr.Internal, "failed to look up trainer", err)
	}

	created := 0
	for _, slot := range ExpandRule(rule) {
		inserted, err := s.repo.InsertOpenSlot(ctx, slot)
		if err != nil {
			logger.Errorf("Failed to create slot %s: %v", slot.ID, err)
			continue
		}
		if inserted {
			created++
		}
	}

	metrics.RecordSlotsGenerated(created)
	logger.Infof("Generated %d slots for trainer %d", created, normalized.TrainerID)

	return created, nil
}

func (s *service) SetSlotStatus(ctx context.Context, trainerID int, start time.Time, status Status) (*Slot, error) {
	if status != StatusOpen && status != StatusUnavailable {
		return nil, apperr.New(apperr.InvalidArgument, "status must be open or unavailable")
	}

	if _, err := s.trainerRepo.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, trainer.ErrTrainerNotFound) {
			return nil, apperr.New(apperr.NotFound, "trainer not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to look up trainer", err)
	}

	slot := Slot{
		ID:        SlotID(trainerID, start),
		TrainerID: trainerID,
		Status:    status,
		StartTime: start,
		EndTime:   start.Add(time.Duration(DefaultSlotDurationMinutes) * time.Minute),
	}

	updated, err := s.repo.UpsertSlotStatus(ctx, slot)
	if err != nil {
		if errors.Is(err, ErrSlotBooked) {
			return nil, apperr.New(apperr.FailedPrecondition, "slot is booked and cannot be edited")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to update slot", err)
	}

	return updated, nil
}

func (s *service) DeleteSlot(ctx context.Context, trainerID int, start time.Time) error {
	err := s.repo.DeleteSlot(ctx, SlotID(trainerID, start))
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound):
			return apperr.New(apperr.NotFound, "slot not found")
		case errors.Is(err, ErrSlotBooked):
			return apperr.New(apperr.FailedPrecondition, "slot is booked and cannot be deleted")
		default:
			return apperr.Wrap(apperr.Internal, "failed to delete slot", err)
		}
	}
	return nil
}

func (s *service) ListSlots(ctx context.Context, trainerID int, from, to time.Time) ([]Slot, error) {
	if !to.After(from) {
		return nil, apperr.New(apperr.InvalidArgument, "to must be after from")
	}

	slots, err := s.repo.ListSlots(ctx, trainerID, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list slots", err)
	}

	return slots, nil
}
