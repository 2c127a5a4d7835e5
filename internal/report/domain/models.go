package domain

import "github.com/bwmarrin/snowflake"

// Window is an inclusive [Start, End] date range in yyyy-MM-dd.
type Window struct {
	Start string
	End   string
}

// DevoteeSummary is the computed report for one devotee over a window.
// Days without an entry count toward neither numerator nor denominator;
// zero recorded days yields an all-zero summary, never NaN.
type DevoteeSummary struct {
	DevoteeID         snowflake.ID `json:"devotee_id"`
	DevoteeName       string       `json:"devotee_name"`
	IsResident        bool         `json:"is_resident"`
	TotalDays         int          `json:"total_days"`
	TotalPoints       float64      `json:"total_points"`
	MaxPoints         float64      `json:"max_points"`
	ManglaPercentage  float64      `json:"mangla_percentage"`
	JapaPercentage    float64      `json:"japa_percentage"`
	LecturePercentage float64      `json:"lecture_percentage"`
	TotalPercentage   float64      `json:"total_percentage"`
	TempleVisits      int          `json:"temple_visits"`
}
