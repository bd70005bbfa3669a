// Package domain models Atlantic hurricane track observations and the
// filtering applied to them by the viewer.
//
// # Source Layout
//
// The source file is a delimited table. The first lines (two by default)
// carry title and provenance metadata and are skipped. An optional column
// header row may follow; when present it is checked against [Columns].
// Every data row has exactly [ColumnCount] positional fields:
//
//	Rank, #, Date, Time, Latitude, Longitude, Max Winds (kt), SS,
//	RMW (nm), Central Pressure (mb), States Affected, Name
//
// Columns are matched by position, never by name.
//
// # Missing Values
//
// Blank or unparsable values become nil pointers on [Record]; the row is
// kept. The exception is Name: a row without a storm name is dropped during
// cleaning, so a [Table] never contains a blank name.
//
// Dates are parsed permissively ("2005-08-29", "8/29/2005", "Aug 29 2005",
// with or without a clock time). Year is derived from the parsed date and is
// nil whenever the date is.
//
// Wind speed is integer knots. Whole-valued decimals ("150.0") are accepted;
// fractional knots are treated as unparsable.
//
// # Filtering
//
// A [Filter] is the conjunction of year membership, Saffir-Simpson category
// membership and an inclusive wind range. A record with a missing year,
// category or wind never matches. [DefaultFilter] selects every option from
// [BuildOptions].
//
// Coordinates are not range-checked during cleaning. [BuildMapView] drops
// points outside latitude [-90, 90] and longitude [-180, 180] and reports
// why through [MapWarning] values.
package domain
