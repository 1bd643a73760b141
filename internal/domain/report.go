package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chart titles of the client report, in the order the datasets are emitted.
const (
	ChartTitleCountByType    = "Exercise count by type"
	ChartTitleCountByName    = "Exercise count by name"
	ChartTitleStrength       = "Strength exercises"
	ChartTitleCardioEnergy   = "Cardio exercises, energy"
	ChartTitleCardioDistance = "Cardio exercises, distance"
	ChartTitleCrossfitReps   = "Crossfit exercises, reps"
	ChartTitleCrossfitWeight = "Crossfit exercises, weight"
)

// Chart is one dataset of a client report. Data rows are loosely typed on
// purpose: count charts carry {name|type, count} rows, day charts carry wide
// rows of {date, <exercise name>: <metric>, ...} feeding multi-series
// line/bar charts on the front end.
type Chart struct {
	Title string           `bson:"title" json:"title"`
	Data  []map[string]any `bson:"data" json:"data"`
}

// TrainingsReport is a persisted report request, kept so that an emailed
// report link can be replayed later. The chart selector fields hold the
// chart titles to include; an empty selector skips that chart. Reports are
// never mutated after creation.
type TrainingsReport struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token    string             `bson:"token" json:"token"` // opaque link token
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	FromDate *time.Time         `bson:"fromDate,omitempty" json:"fromDate,omitempty"`
	ToDate   *time.Time         `bson:"toDate,omitempty" json:"toDate,omitempty"`

	Types          string `bson:"types,omitempty" json:"types,omitempty"`
	Exercises      string `bson:"exercises,omitempty" json:"exercises,omitempty"`
	Strength       string `bson:"strength,omitempty" json:"strength,omitempty"`
	CardioEnergy   string `bson:"cardioEnergy,omitempty" json:"cardioEnergy,omitempty"`
	CardioDistance string `bson:"cardioDistance,omitempty" json:"cardioDistance,omitempty"`
	Crossfit       string `bson:"crossfit,omitempty" json:"crossfit,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// RangeResult is one cardio outcome point in a client range series.
type RangeResult struct {
	Date     string   `json:"date"` // DD-MM-YYYY
	Distance *float64 `json:"distance,omitempty"`
	Energy   *float64 `json:"energy,omitempty"`
}

// RangeWeight is one strength/crossfit point in a client range series,
// carrying the last set of the session.
type RangeWeight struct {
	Date   string   `json:"date"` // DD-MM-YYYY
	Weight *float64 `json:"weight,omitempty"`
	Reps   *int     `json:"reps,omitempty"`
}

// RangeDuration is one duration point in a client range series.
type RangeDuration struct {
	Date     string `json:"date"` // DD-MM-YYYY
	Duration int    `json:"duration"`
}

// ClientExerciseSeries is the per-exercise time series of a client's
// personal statistics view. The trailing Duration field repeats the
// durations as a bare array; an old chart component still consumes it.
type ClientExerciseSeries struct {
	Name      string          `json:"name"`
	Type      ExerciseType    `json:"type"`
	Results   []RangeResult   `json:"results"`
	Weights   []RangeWeight   `json:"weights"`
	Durations []RangeDuration `json:"durations"`
	Duration  []int           `json:"duration"`
}
