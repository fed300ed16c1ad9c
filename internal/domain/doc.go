// Package domain models daily fire-weather observations from weather stations
// and the fire behaviour predictions derived from them.
//
// # Data Source
//
// Observations originate from the provincial fire-weather station network.
// The upstream collector computes the Fire Weather Index System codes for each
// station once per day and publishes one flat JSON object per station to the
// Kafka source topic:
//
//	{"station_code":"KAM","station_name":"Kamloops","province":"BC",
//	 "latitude":50.67,"longitude":-120.48,"elevation":780,
//	 "date":"2024-07-15","ffmc":91.2,"bui":84,"wind_speed":18}
//
// # Field Conventions
//
// FWI System codes:
//
//	ffmc        Fine Fuel Moisture Code, 0–101
//	bui         Buildup Index, ≥ 0
//	isi         Initial Spread Index (optional). When absent the index is
//	            derived from ffmc and wind_speed with the FBP wind function.
//	grass_cure  Degree of grass curing in percent (optional). Used for O1A and
//	            O1B fuels whose catalogue entry does not pin a value.
//
// Units:
//
//	wind_speed  10 m open wind speed in km/h
//	elevation   metres above sea level; omitted or 0 selects the
//	            elevation-free foliar moisture equations
//	latitude    decimal degrees north
//	longitude   decimal degrees; the sign is ignored (degrees west)
//
// Dates are local calendar days in YYYY-MM-DD form. Only the day of year is
// used, for the foliar moisture content.
//
// # Locating Stations
//
// Foliar moisture content depends on where the station is. Coordinates are
// taken from, in order: the observation itself, the station catalogue, and a
// forward geocoding lookup of the station name. See [EnrichWithLocation].
//
// # ID Generation
//
// Prediction IDs are deterministic SHA-256 hashes of station|date|fuel type.
// Replaying a day of observations produces the same keys, so downstream
// consumers can upsert idempotently. See [generateID].
package domain
