// Package configdiff compares two screen configurations and groups the differences into labeled sections suitable for display.
//
// Compare is a pure function of its inputs. A saved configuration that is absent (nil) produces a single "New configuration" section. Configurations with a well-formed "cells" list
// are compared cell by cell, matched by name; other configurations are compared as a whole. The time range is compared separately and reported in its own "timeRange" section.
//
// Within a section, lines come from the diff package: the canonical text (see screenconfig.Canonical) of each side is diffed line by line and windowed to the changed region.
package configdiff
