package dataprocessing

import (
	"sort"

	"svcpulse/pkg/contracts/domain"
)

// Entry is one key/count pair of a ranked bucket.
type Entry struct {
	Key   string
	Count int64
}

// Rank orders b by descending count and truncates to limit entries. Equal
// counts are ordered by ascending key so the output is deterministic. A
// limit <= 0 keeps every entry.
func Rank(b Bucket, limit int) []Entry {
	entries := make([]Entry, 0, len(b))
	for k, v := range b {
		entries = append(entries, Entry{Key: k, Count: v})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})

	return truncate(entries, limit)
}

// SortByKey orders b by ascending key without truncation. Used for the
// hourly series, where "HH:00" keys sort chronologically.
func SortByKey(b Bucket) []Entry {
	entries := make([]Entry, 0, len(b))
	for k, v := range b {
		entries = append(entries, Entry{Key: k, Count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// RankMatrix orders matrix cells by descending count, then by IT system and
// operation, and truncates to limit.
func RankMatrix(b CompositeBucket, limit int) []domain.MatrixEntry {
	cells := make([]domain.MatrixEntry, 0, len(b))
	for k, v := range b {
		cells = append(cells, domain.MatrixEntry{ITSystem: k.ITSystem, Operation: k.Operation, Calls: v})
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].Calls != cells[j].Calls {
			return cells[i].Calls > cells[j].Calls
		}
		if cells[i].ITSystem != cells[j].ITSystem {
			return cells[i].ITSystem < cells[j].ITSystem
		}
		return cells[i].Operation < cells[j].Operation
	})

	return truncate(cells, limit)
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func toRanked(entries []Entry) []domain.RankedEntry {
	out := make([]domain.RankedEntry, len(entries))
	for i, e := range entries {
		out[i] = domain.RankedEntry{Name: e.Key, Calls: e.Count}
	}
	return out
}

func toVersions(entries []Entry) []domain.VersionEntry {
	out := make([]domain.VersionEntry, len(entries))
	for i, e := range entries {
		out[i] = domain.VersionEntry{Version: e.Key, Calls: e.Count}
	}
	return out
}

func toHourly(entries []Entry) []domain.HourlyEntry {
	out := make([]domain.HourlyEntry, len(entries))
	for i, e := range entries {
		out[i] = domain.HourlyEntry{Hour: e.Key, Calls: e.Count}
	}
	return out
}

func toCounts(entries []Entry) []domain.CountEntry {
	out := make([]domain.CountEntry, len(entries))
	for i, e := range entries {
		out[i] = domain.CountEntry{Name: e.Key, Count: e.Count}
	}
	return out
}
