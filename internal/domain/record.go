package domain

import "time"

// ColumnCount is the number of positional fields in every track row.
const ColumnCount = 12

// Column positions in the source file. The order is fixed.
const (
	ColRank = iota
	ColSequence
	ColDate
	ColTime
	ColLatitude
	ColLongitude
	ColMaxWind
	ColCategory
	ColRMW
	ColPressure
	ColStates
	ColName
)

// Columns holds the display label of each positional column.
var Columns = [ColumnCount]string{
	"Rank", "#", "Date", "Time", "Latitude", "Longitude", "Max Winds (kt)",
	"SS", "RMW (nm)", "Central Pressure (mb)", "States Affected", "Name",
}

// Record is one cleaned track observation of a storm. Nil pointer fields are
// values that were blank or failed to parse.
type Record struct {
	Rank              string     `json:"rank"`
	SequenceNumber    string     `json:"sequence_number"`
	Date              *time.Time `json:"date"`
	Time              string     `json:"time"`
	Latitude          *float64   `json:"latitude"`
	Longitude         *float64   `json:"longitude"`
	MaxWindKt         *int       `json:"max_wind_kt"`
	Category          *string    `json:"saffir_simpson_category"`
	RadiusOfMaxWindNm *float64   `json:"radius_of_max_wind_nm"`
	CentralPressureMb *float64   `json:"central_pressure_mb"`
	StatesAffected    string     `json:"states_affected"`
	Name              string     `json:"name"`
	Year              *int       `json:"year"`
}

// HasCoordinates reports whether both latitude and longitude parsed.
func (r Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// FieldFailures records which fields of a row soft-failed during parsing.
// A blank source value is missing, not failed.
type FieldFailures struct {
	Date      bool
	Latitude  bool
	Longitude bool
	MaxWind   bool
}
