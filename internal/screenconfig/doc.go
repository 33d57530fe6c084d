// Package screenconfig models analytics screen configurations ("snapshots") as open structured values and provides their canonical text form.
//
// A Snapshot is a JSON-like object (map[string]any). The package interprets only a few keys:
//   - "cells": an optional ordered list of cell objects, each with a unique "name" and a "type" plus arbitrary other fields.
//   - "timeRangeFrom" / "timeRangeTo": the screen's saved time range.
//
// Everything else is opaque data that is carried through serialization untouched.
//
// Canonical serialization (Canonical) is two-space-indented JSON with object keys sorted, HTML escaping disabled, and no trailing newline. Two equal values always serialize
// identically, so value equality can be tested with string equality.
//
// The package also carries the screen metadata served by the analytics web server: Screen, ScreenType (with default configs), and the screen name rules (NormalizeName,
// ValidateName).
package screenconfig
