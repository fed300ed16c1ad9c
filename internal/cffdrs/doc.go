// Package cffdrs implements the fire behaviour equations of the Canadian Forest
// Fire Danger Rating System (CFFDRS) Fire Behaviour Prediction (FBP) System.
//
// # Sources
//
// Equation numbers in comments refer to Forestry Canada Fire Danger Group
// (1992), "Development and Structure of the Canadian Forest Fire Behavior
// Prediction System", Information Report ST-X-3, unless stated otherwise.
//
// # Fuel types
//
// Seventeen benchmark fuel types are supported:
//
//	C1–C7   conifer (C6 is the conifer plantation with its own crown model)
//	D1      leafless aspen
//	M1–M4   boreal mixedwood, blends of C2 and D1 by percent conifer (M1/M2)
//	        or percent dead fir (M3/M4)
//	S1–S3   slash
//	O1A/O1B matted and standing grass
//
// Coefficients live in one table keyed by [FuelType], so the spread, buildup
// and crown parameters of a fuel can never drift apart.
//
// # Rate of spread
//
// [ROS] is the entry point. Single-component fuels use the initial spread
// equation a·(1−e^(−b·ISI))^c0 scaled by the buildup effect [BE]. Mixedwood
// fuels recurse into [ROS] for C2 and D1 with [SkipBuildup] and apply the
// buildup effect once, to the blended spread rate. C6 is delegated to [C6].
// Every result is floored at [MinRateOfSpread].
//
// # Concurrency
//
// Every function is pure. There is no package-level mutable state, so callers
// may fan calculations out across goroutines freely.
package cffdrs
