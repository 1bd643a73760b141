package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They reproduce the ordering and filtering the
// mongo implementations promise (ascending creation time, inclusive bounds)
// so the services can be exercised without a database.

type fakeExerciseRepo struct {
	records []domain.ExerciseRecord
}

func (f *fakeExerciseRepo) add(rec domain.ExerciseRecord) primitive.ObjectID {
	if rec.ID == primitive.NilObjectID {
		rec.ID = primitive.NewObjectID()
	}
	f.records = append(f.records, rec)
	return rec.ID
}

func (f *fakeExerciseRepo) sorted(match func(*domain.ExerciseRecord) bool) []domain.ExerciseRecord {
	out := []domain.ExerciseRecord{}
	for i := range f.records {
		if match(&f.records[i]) {
			out = append(out, f.records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeExerciseRepo) Create(_ context.Context, record *domain.ExerciseRecord) (primitive.ObjectID, error) {
	rec := *record
	rec.ID = primitive.NewObjectID()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	f.records = append(f.records, rec)
	return rec.ID, nil
}

func (f *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ExerciseRecord, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	wanted := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return f.sorted(func(r *domain.ExerciseRecord) bool { return wanted[r.ID] }), nil
}

func (f *fakeExerciseRepo) GetTemplates(_ context.Context) ([]domain.ExerciseRecord, error) {
	return f.sorted(func(r *domain.ExerciseRecord) bool { return r.IsTemplate() }), nil
}

func (f *fakeExerciseRepo) GetTemplateByName(_ context.Context, name string) (*domain.ExerciseRecord, error) {
	for i := range f.records {
		if f.records[i].IsTemplate() && strings.EqualFold(f.records[i].Name, name) {
			rec := f.records[i]
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) Update(_ context.Context, record *domain.ExerciseRecord) error {
	for i := range f.records {
		if f.records[i].ID == record.ID {
			updated := *record
			updated.CreatedAt = f.records[i].CreatedAt
			f.records[i] = updated
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeExerciseRepo) Upsert(_ context.Context, record *domain.ExerciseRecord) (*domain.ExerciseRecord, error) {
	for i := range f.records {
		r := &f.records[i]
		if r.Name == record.Name && r.UserID != nil && record.UserID != nil && *r.UserID == *record.UserID &&
			r.TrainingID != nil && record.TrainingID != nil && *r.TrainingID == *record.TrainingID {
			updated := *record
			updated.ID = r.ID
			updated.CreatedAt = r.CreatedAt
			*r = updated
			out := *r
			return &out, nil
		}
	}
	rec := *record
	rec.ID = primitive.NewObjectID()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	f.records = append(f.records, rec)
	out := rec
	return &out, nil
}

func (f *fakeExerciseRepo) FindPerformances(_ context.Context, userID, trainingID primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	out := f.sorted(func(r *domain.ExerciseRecord) bool {
		return r.UserID != nil && *r.UserID == userID && r.TrainingID != nil && *r.TrainingID == trainingID
	})
	for i := range out {
		out[i].Description = ""
	}
	return out, nil
}

func (f *fakeExerciseRepo) FindPerformancesByNames(_ context.Context, userID primitive.ObjectID, names []string) ([]domain.ExerciseRecord, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	return f.sorted(func(r *domain.ExerciseRecord) bool {
		return r.UserID != nil && *r.UserID == userID && r.TrainingID != nil && wanted[r.Name]
	}), nil
}

func (f *fakeExerciseRepo) FindByUserInRange(_ context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.ExerciseRecord, error) {
	return f.sorted(func(r *domain.ExerciseRecord) bool {
		if r.UserID == nil || *r.UserID != userID {
			return false
		}
		if !from.IsZero() && r.CreatedAt.Before(from) {
			return false
		}
		if !to.IsZero() && r.CreatedAt.After(to) {
			return false
		}
		return true
	}), nil
}

func (f *fakeExerciseRepo) FindByUserOnTrainings(_ context.Context, userID primitive.ObjectID, trainingIDs []primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	wanted := make(map[primitive.ObjectID]bool, len(trainingIDs))
	for _, id := range trainingIDs {
		wanted[id] = true
	}
	return f.sorted(func(r *domain.ExerciseRecord) bool {
		return r.UserID != nil && *r.UserID == userID && r.TrainingID != nil && wanted[*r.TrainingID]
	}), nil
}

func (f *fakeExerciseRepo) DeleteByUsersOnTraining(_ context.Context, userIDs []primitive.ObjectID, trainingID primitive.ObjectID) (int64, error) {
	wanted := make(map[primitive.ObjectID]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	return f.deleteWhere(func(r *domain.ExerciseRecord) bool {
		return r.UserID != nil && wanted[*r.UserID] && r.TrainingID != nil && *r.TrainingID == trainingID
	}), nil
}

func (f *fakeExerciseRepo) DeleteByNamesOnTraining(_ context.Context, names []string, trainingID primitive.ObjectID) (int64, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	return f.deleteWhere(func(r *domain.ExerciseRecord) bool {
		return wanted[r.Name] && r.TrainingID != nil && *r.TrainingID == trainingID
	}), nil
}

func (f *fakeExerciseRepo) deleteWhere(match func(*domain.ExerciseRecord) bool) int64 {
	var kept []domain.ExerciseRecord
	var deleted int64
	for i := range f.records {
		if match(&f.records[i]) {
			deleted++
			continue
		}
		kept = append(kept, f.records[i])
	}
	f.records = kept
	return deleted
}

type fakeTrainingRepo struct {
	trainings []domain.Training
}

func (f *fakeTrainingRepo) add(t domain.Training) primitive.ObjectID {
	if t.ID == primitive.NilObjectID {
		t.ID = primitive.NewObjectID()
	}
	f.trainings = append(f.trainings, t)
	return t.ID
}

func (f *fakeTrainingRepo) Create(_ context.Context, training *domain.Training) (primitive.ObjectID, error) {
	t := *training
	t.ID = primitive.NewObjectID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	f.trainings = append(f.trainings, t)
	return t.ID, nil
}

func (f *fakeTrainingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Training, error) {
	for i := range f.trainings {
		if f.trainings[i].ID == id {
			t := f.trainings[i]
			return &t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTrainingRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Training, error) {
	out := []domain.Training{}
	for _, t := range f.trainings {
		if t.TrainerID == trainerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTrainingRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Training, error) {
	out := []domain.Training{}
	for _, t := range f.trainings {
		if t.HasUser(userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTrainingRepo) GetByUserInRange(_ context.Context, userID primitive.ObjectID, from, to *time.Time) ([]domain.Training, error) {
	out := []domain.Training{}
	for _, t := range f.trainings {
		if !t.HasUser(userID) {
			continue
		}
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && t.CreatedAt.After(*to) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTrainingRepo) Update(_ context.Context, training *domain.Training) error {
	for i := range f.trainings {
		if f.trainings[i].ID == training.ID {
			f.trainings[i].Name = training.Name
			f.trainings[i].UserIDs = training.UserIDs
			f.trainings[i].ExerciseIDs = training.ExerciseIDs
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeTrainingRepo) SetFinished(_ context.Context, id primitive.ObjectID) error {
	for i := range f.trainings {
		if f.trainings[i].ID == id {
			f.trainings[i].IsFinished = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeTrainingRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range f.trainings {
		if f.trainings[i].ID == id {
			f.trainings = append(f.trainings[:i], f.trainings[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeReportRepo struct {
	reports []domain.TrainingsReport
}

func (f *fakeReportRepo) Create(_ context.Context, report *domain.TrainingsReport) (primitive.ObjectID, error) {
	rep := *report
	rep.ID = primitive.NewObjectID()
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now()
	}
	f.reports = append(f.reports, rep)
	return rep.ID, nil
}

func (f *fakeReportRepo) GetByToken(_ context.Context, token string) (*domain.TrainingsReport, error) {
	for i := range f.reports {
		if f.reports[i].Token == token {
			rep := f.reports[i]
			return &rep, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeUserRepo struct {
	users []domain.User
}

func (f *fakeUserRepo) add(u domain.User) primitive.ObjectID {
	if u.ID == primitive.NilObjectID {
		u.ID = primitive.NewObjectID()
	}
	f.users = append(f.users, u)
	return u.ID
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u := *user
	u.ID = primitive.NewObjectID()
	f.users = append(f.users, u)
	return u.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for i := range f.users {
		if strings.EqualFold(f.users[i].Email, email) {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetClientsByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range f.users {
		if u.TrainerID != nil && *u.TrainerID == trainerID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) SetPhotoKey(_ context.Context, id primitive.ObjectID, key string) error {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].PhotoKey = key
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUserRepo) LinkClientToTrainer(_ context.Context, trainerID, clientID primitive.ObjectID) error {
	var trainer, client *domain.User
	for i := range f.users {
		switch f.users[i].ID {
		case trainerID:
			trainer = &f.users[i]
		case clientID:
			client = &f.users[i]
		}
	}
	if trainer == nil || trainer.Role != domain.RoleTrainer || client == nil || client.Role != domain.RoleClient {
		return repository.ErrNotFound
	}
	trainer.ClientIDs = append(trainer.ClientIDs, clientID)
	client.TrainerID = &trainerID
	return nil
}

func (f *fakeUserRepo) UnlinkClientFromTrainer(_ context.Context, trainerID, clientID primitive.ObjectID) error {
	var trainer, client *domain.User
	for i := range f.users {
		switch f.users[i].ID {
		case trainerID:
			trainer = &f.users[i]
		case clientID:
			client = &f.users[i]
		}
	}
	if trainer == nil || client == nil {
		return repository.ErrNotFound
	}
	var kept []primitive.ObjectID
	for _, id := range trainer.ClientIDs {
		if id != clientID {
			kept = append(kept, id)
		}
	}
	trainer.ClientIDs = kept
	client.TrainerID = nil
	return nil
}
