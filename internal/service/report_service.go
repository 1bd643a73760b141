package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"trainhub/training-app/internal/domain"
	"trainhub/training-app/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrReportNotFound = errors.New("report not found")

// Day-key formats. Report charts bucket by ISO day in UTC; the client range
// series formats dates the way the legacy chart component expects them.
const (
	chartDayFormat = "2006-01-02"
	rangeDayFormat = "02-01-2006"
)

// ReportService computes the derived chart datasets for client progress
// reports and personal statistics, and persists report requests so mailed
// report links can be replayed.
type ReportService interface {
	// GetAllClientReportData computes the seven chart datasets for a user
	// over a date range. Each provided bound is shifted forward by one day
	// before filtering trainings; a nil bound leaves that side open.
	GetAllClientReportData(ctx context.Context, userID primitive.ObjectID, fromDate, toDate *time.Time) ([]domain.Chart, error)

	// GetClientExercisesByDateRange computes per-exercise time series for a
	// client across [startDate, endDate] inclusive, independent of training
	// grouping. Unlike the report range, these bounds are not shifted.
	GetClientExercisesByDateRange(ctx context.Context, clientID primitive.ObjectID, startDate, endDate time.Time) ([]domain.ClientExerciseSeries, error)

	// GetLatestExerciseResults returns one record per exercise name ever
	// logged by the client, the most recent by creation time.
	GetLatestExerciseResults(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExerciseRecord, error)

	// CreateReport persists a report request and returns it with the link
	// token assigned.
	CreateReport(ctx context.Context, userID primitive.ObjectID, fromDate, toDate *time.Time) (*domain.TrainingsReport, error)

	// GetReportByToken replays a persisted report: the charts are
	// recomputed from current data using the stored range and selectors.
	GetReportByToken(ctx context.Context, token string) (*domain.TrainingsReport, []domain.Chart, error)
}

type reportService struct {
	trainingRepo repository.TrainingRepository
	exerciseRepo repository.ExerciseRepository
	reportRepo   repository.ReportRepository
	log          *logrus.Entry
}

// NewReportService creates a new report service.
func NewReportService(
	trainingRepo repository.TrainingRepository,
	exerciseRepo repository.ExerciseRepository,
	reportRepo repository.ReportRepository,
) ReportService {
	return &reportService{
		trainingRepo: trainingRepo,
		exerciseRepo: exerciseRepo,
		reportRepo:   reportRepo,
		log:          logrus.WithField("service", "report"),
	}
}

// reportRange shifts each provided calendar-day bound forward by one day.
// The front end sends date-only (midnight UTC) values that should cover the
// whole day in local time; the shifted values are then used as inclusive
// bounds against the trainings' creation time. The client range series
// deliberately does NOT apply this shift.
func reportRange(fromDate, toDate *time.Time) (*time.Time, *time.Time) {
	shift := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		shifted := t.AddDate(0, 0, 1)
		return &shifted
	}
	return shift(fromDate), shift(toDate)
}

// GetAllClientReportData joins the user's trainings in range to their
// performance records and folds them into the seven chart datasets.
func (s *reportService) GetAllClientReportData(ctx context.Context, userID primitive.ObjectID, fromDate, toDate *time.Time) ([]domain.Chart, error) {
	from, to := reportRange(fromDate, toDate)
	trainings, err := s.trainingRepo.GetByUserInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	trainingIDs := make([]primitive.ObjectID, 0, len(trainings))
	for _, t := range trainings {
		trainingIDs = append(trainingIDs, t.ID)
	}
	records, err := s.exerciseRepo.FindByUserOnTrainings(ctx, userID, trainingIDs)
	if err != nil {
		return nil, err
	}

	charts := []domain.Chart{
		{Title: domain.ChartTitleCountByType, Data: countByType(records)},
		{Title: domain.ChartTitleCountByName, Data: countByName(records)},
		{Title: domain.ChartTitleStrength, Data: strengthByDay(records)},
	}
	energy, distance := cardioByDay(records)
	reps, weight := crossfitByDay(records)
	charts = append(charts,
		domain.Chart{Title: domain.ChartTitleCardioEnergy, Data: energy},
		domain.Chart{Title: domain.ChartTitleCardioDistance, Data: distance},
		domain.Chart{Title: domain.ChartTitleCrossfitReps, Data: reps},
		domain.Chart{Title: domain.ChartTitleCrossfitWeight, Data: weight},
	)

	s.log.WithFields(logrus.Fields{
		"userId":    userID.Hex(),
		"trainings": len(trainings),
		"exercises": len(records),
	}).Debug("client report data computed")
	return charts, nil
}

// countByType counts exercise occurrences per type.
func countByType(records []domain.ExerciseRecord) []map[string]any {
	counts := make(map[domain.ExerciseType]int)
	for _, rec := range records {
		counts[rec.Type]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	rows := make([]map[string]any, 0, len(types))
	for _, t := range types {
		rows = append(rows, map[string]any{"type": t, "count": counts[domain.ExerciseType(t)]})
	}
	return rows
}

// countByName counts exercise occurrences per name.
func countByName(records []domain.ExerciseRecord) []map[string]any {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Name]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)

	rows := make([]map[string]any, 0, len(names))
	for _, n := range names {
		rows = append(rows, map[string]any{"name": n, "count": counts[n]})
	}
	return rows
}

// strengthByDay keeps Strength records with at least one positive set
// weight and reports, per day and exercise name, the max weight across sets.
func strengthByDay(records []domain.ExerciseRecord) []map[string]any {
	byDay := make(map[string]map[string]any)
	for _, rec := range records {
		if rec.Type != domain.TypeStrength {
			continue
		}
		max, ok := rec.MaxSetWeight()
		if !ok {
			continue
		}
		day := rec.CreatedAt.UTC().Format(chartDayFormat)
		row := dayRow(byDay, day)
		if prev, ok := row[rec.Name].(float64); !ok || max > prev {
			row[rec.Name] = max
		}
	}
	return wideRows(byDay)
}

// cardioByDay sums energy and distance per day and exercise name, producing
// two independent wide tables from one grouping.
func cardioByDay(records []domain.ExerciseRecord) (energyRows, distanceRows []map[string]any) {
	energyByDay := make(map[string]map[string]any)
	distanceByDay := make(map[string]map[string]any)
	for _, rec := range records {
		if rec.Type != domain.TypeCardio || rec.Result == nil {
			continue
		}
		day := rec.CreatedAt.UTC().Format(chartDayFormat)
		if rec.Result.Energy != nil {
			row := dayRow(energyByDay, day)
			prev, _ := row[rec.Name].(float64)
			row[rec.Name] = prev + *rec.Result.Energy
		}
		if rec.Result.Distance != nil {
			row := dayRow(distanceByDay, day)
			prev, _ := row[rec.Name].(float64)
			row[rec.Name] = prev + *rec.Result.Distance
		}
	}
	return wideRows(energyByDay), wideRows(distanceByDay)
}

// crossfitByDay sums set reps and keeps the max set weight per day and
// exercise name.
func crossfitByDay(records []domain.ExerciseRecord) (repsRows, weightRows []map[string]any) {
	repsByDay := make(map[string]map[string]any)
	weightByDay := make(map[string]map[string]any)
	for _, rec := range records {
		if rec.Type != domain.TypeCrossfit {
			continue
		}
		day := rec.CreatedAt.UTC().Format(chartDayFormat)

		repsRow := dayRow(repsByDay, day)
		prevReps, _ := repsRow[rec.Name].(int)
		repsRow[rec.Name] = prevReps + rec.TotalSetReps()

		if max, ok := rec.MaxSetWeight(); ok {
			row := dayRow(weightByDay, day)
			if prev, ok := row[rec.Name].(float64); !ok || max > prev {
				row[rec.Name] = max
			}
		}
	}
	return wideRows(repsByDay), wideRows(weightByDay)
}

func dayRow(byDay map[string]map[string]any, day string) map[string]any {
	row, ok := byDay[day]
	if !ok {
		row = make(map[string]any)
		byDay[day] = row
	}
	return row
}

// wideRows reshapes day-grouped {name: metric} pairs into wide rows of
// {date, <name>: <metric>, ...}, sorted ascending by date. The wide shape
// feeds multi-series line/bar charts directly.
func wideRows(byDay map[string]map[string]any) []map[string]any {
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]map[string]any, 0, len(days))
	for _, day := range days {
		row := map[string]any{"date": day}
		for name, metric := range byDay[day] {
			row[name] = metric
		}
		rows = append(rows, row)
	}
	return rows
}

// GetClientExercisesByDateRange groups a client's performance records by
// exercise name into parallel results/weights/durations series.
func (s *reportService) GetClientExercisesByDateRange(ctx context.Context, clientID primitive.ObjectID, startDate, endDate time.Time) ([]domain.ClientExerciseSeries, error) {
	records, err := s.exerciseRepo.FindByUserInRange(ctx, clientID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("get client exercises by date range: %s", err)
	}

	type group struct {
		series       domain.ClientExerciseSeries
		latestResult time.Time // zero when the group has no cardio results
	}
	var order []string
	groups := make(map[string]*group)

	// Records arrive sorted ascending by creation time, so appends keep
	// each series chronological.
	for i := range records {
		rec := &records[i]
		g, ok := groups[rec.Name]
		if !ok {
			g = &group{series: domain.ClientExerciseSeries{
				Name:      rec.Name,
				Results:   []domain.RangeResult{},
				Weights:   []domain.RangeWeight{},
				Durations: []domain.RangeDuration{},
				Duration:  []int{},
			}}
			groups[rec.Name] = g
			order = append(order, rec.Name)
		}
		g.series.Type = rec.Type
		date := rec.CreatedAt.UTC().Format(rangeDayFormat)

		if rec.Result != nil {
			g.series.Results = append(g.series.Results, domain.RangeResult{
				Date:     date,
				Distance: rec.Result.Distance,
				Energy:   rec.Result.Energy,
			})
			if rec.CreatedAt.After(g.latestResult) {
				g.latestResult = rec.CreatedAt
			}
		}
		if last := rec.LastSet(); last != nil {
			g.series.Weights = append(g.series.Weights, domain.RangeWeight{
				Date:   date,
				Weight: last.Weight,
				Reps:   last.Reps,
			})
		}
		if rec.Duration != nil {
			g.series.Durations = append(g.series.Durations, domain.RangeDuration{
				Date:     date,
				Duration: *rec.Duration,
			})
			g.series.Duration = append(g.series.Duration, *rec.Duration)
		}
	}

	// Exercises with the most recent cardio result come first. Groups
	// without any result carry the zero time and therefore sort last;
	// names break the remaining ties so the order is total.
	sort.SliceStable(order, func(i, j int) bool {
		gi, gj := groups[order[i]], groups[order[j]]
		if !gi.latestResult.Equal(gj.latestResult) {
			return gi.latestResult.After(gj.latestResult)
		}
		return order[i] < order[j]
	})

	out := make([]domain.ClientExerciseSeries, 0, len(order))
	for _, name := range order {
		out = append(out, groups[name].series)
	}
	return out, nil
}

// GetLatestExerciseResults folds the client's whole history down to the
// most recent record per exercise name, newest first.
func (s *reportService) GetLatestExerciseResults(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExerciseRecord, error) {
	records, err := s.exerciseRepo.FindByUserInRange(ctx, clientID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	// Ascending input: the last record seen per name wins.
	latest := make(map[string]domain.ExerciseRecord)
	for _, rec := range records {
		latest[rec.Name] = rec
	}

	out := make([]domain.ExerciseRecord, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// CreateReport persists a replayable report request with all charts
// selected and a fresh link token.
func (s *reportService) CreateReport(ctx context.Context, userID primitive.ObjectID, fromDate, toDate *time.Time) (*domain.TrainingsReport, error) {
	report := &domain.TrainingsReport{
		Token:          uuid.NewString(),
		UserID:         userID,
		FromDate:       fromDate,
		ToDate:         toDate,
		Types:          domain.ChartTitleCountByType,
		Exercises:      domain.ChartTitleCountByName,
		Strength:       domain.ChartTitleStrength,
		CardioEnergy:   domain.ChartTitleCardioEnergy,
		CardioDistance: domain.ChartTitleCardioDistance,
		Crossfit:       domain.ChartTitleCrossfitReps,
	}
	if _, err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetReportByToken loads a persisted report and recomputes its charts,
// filtered down to the selected chart kinds.
func (s *reportService) GetReportByToken(ctx context.Context, token string) (*domain.TrainingsReport, []domain.Chart, error) {
	report, err := s.reportRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrReportNotFound
		}
		return nil, nil, err
	}

	charts, err := s.GetAllClientReportData(ctx, report.UserID, report.FromDate, report.ToDate)
	if err != nil {
		return nil, nil, err
	}

	enabled := map[string]bool{
		domain.ChartTitleCountByType:    report.Types != "",
		domain.ChartTitleCountByName:    report.Exercises != "",
		domain.ChartTitleStrength:       report.Strength != "",
		domain.ChartTitleCardioEnergy:   report.CardioEnergy != "",
		domain.ChartTitleCardioDistance: report.CardioDistance != "",
		// A single crossfit selector covers both crossfit charts.
		domain.ChartTitleCrossfitReps:   report.Crossfit != "",
		domain.ChartTitleCrossfitWeight: report.Crossfit != "",
	}
	selected := make([]domain.Chart, 0, len(charts))
	for _, chart := range charts {
		if enabled[chart.Title] {
			selected = append(selected, chart)
		}
	}
	return report, selected, nil
}
