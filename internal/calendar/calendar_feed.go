package calendar

import (
	"context"
	"sort"
	"strings"
	"time"

	"ippis-portal/internal/backend"
	calendarerrors "ippis-portal/internal/calendar/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	feedPageSize = 100
	maxFeedRange = 366 * 24 * time.Hour
	day          = 24 * time.Hour
)

var leaveColors = map[string]string{
	"annual":    "#2563eb",
	"sick":      "#dc2626",
	"casual":    "#d97706",
	"maternity": "#db2777",
	"paternity": "#7c3aed",
	"study":     "#059669",
}

const defaultLeaveColor = "#6b7280"

func LeaveColor(leaveType string) string {
	if c, ok := leaveColors[strings.ToLower(strings.TrimSpace(leaveType))]; ok {
		return c
	}
	return defaultLeaveColor
}

type Lister[T any] interface {
	ListAll(ctx context.Context, q backend.ListQuery, pageSize int) ([]T, error)
}

//go:generate mockgen -source=calendar_feed.go -destination=mock/calendar_feed_mock.go -package=mock
type FeedService interface {
	Feed(ctx context.Context, from, to string) ([]FeedEntry, error)
}

type feedService struct {
	events Lister[Event]
	leaves Lister[Leave]
	logger *zap.Logger
}

func NewFeedService(events Lister[Event], leaves Lister[Leave], logger ...*zap.Logger) FeedService {
	l := zap.L().Named("calendar.feed")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.feed")
	}
	return &feedService{events: events, leaves: leaves, logger: l}
}

// Feed merges calendar events and approved leaves overlapping [from, to). Leaves become all-day
// entries whose end is the day after their last day.
func (s *feedService) Feed(ctx context.Context, from, to string) ([]FeedEntry, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, calendarerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, calendarerrors.ErrInvalidDateFormat
	}
	if !end.After(start) {
		return nil, calendarerrors.ErrInvalidDateRange
	}
	if end.Sub(start) > maxFeedRange {
		return nil, calendarerrors.ErrFeedRangeTooLarge
	}

	window := map[string]string{"from": from, "to": to}
	var (
		evts   []Event
		leaves []Leave
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		evts, err = s.events.ListAll(gctx, backend.ListQuery{Filters: window}, feedPageSize)
		return err
	})
	g.Go(func() error {
		var err error
		leaves, err = s.leaves.ListAll(gctx, backend.ListQuery{Filters: map[string]string{
			"from":   from,
			"to":     to,
			"status": LeaveStatusApproved,
		}}, feedPageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("calendar feed fetch failed", zap.Error(err))
		return nil, err
	}

	entries := make([]FeedEntry, 0, len(evts)+len(leaves))
	for _, e := range evts {
		entry, ok := EventToEntry(e)
		if !ok {
			s.logger.Warn("skipping event with unparseable dates", zap.String("event_id", e.ID))
			continue
		}
		if overlaps(entry, start, end) {
			entries = append(entries, entry)
		}
	}
	for _, l := range leaves {
		// backend filters are advisory
		if !strings.EqualFold(l.Status, LeaveStatusApproved) {
			continue
		}
		entry, ok := LeaveToEntry(l)
		if !ok {
			s.logger.Warn("skipping leave with unparseable dates", zap.String("leave_id", l.ID))
			continue
		}
		if overlaps(entry, start, end) {
			entries = append(entries, entry)
		}
	}

	SortEntries(entries)
	s.logger.Debug("calendar feed built",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("events", len(evts)),
		zap.Int("leaves", len(leaves)),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// EventToEntry converts a calendar event. A date-only end on an all-day event is inclusive and
// becomes exclusive here; a missing end means a one-day (all-day) or zero-length event.
func EventToEntry(e Event) (FeedEntry, bool) {
	start, err := parseTime(e.Start)
	if err != nil {
		return FeedEntry{}, false
	}

	var end time.Time
	switch {
	case e.End == "" && e.AllDay:
		end = start.Add(day)
	case e.End == "":
		end = start
	default:
		end, err = parseTime(e.End)
		if err != nil {
			return FeedEntry{}, false
		}
		if e.AllDay && len(strings.TrimSpace(e.End)) == len(dateLayout) {
			end = end.Add(day)
		}
	}
	if end.Before(start) {
		return FeedEntry{}, false
	}

	return FeedEntry{
		ID:       "event:" + e.ID,
		Title:    e.Title,
		Start:    start,
		End:      end,
		AllDay:   e.AllDay,
		Color:    e.Color,
		Category: e.Category,
		Source:   "event",
	}, true
}

func LeaveToEntry(l Leave) (FeedEntry, bool) {
	start, err := time.Parse(dateLayout, l.StartDate)
	if err != nil {
		return FeedEntry{}, false
	}
	last, err := time.Parse(dateLayout, l.EndDate)
	if err != nil || last.Before(start) {
		return FeedEntry{}, false
	}

	return FeedEntry{
		ID:       "leave:" + l.ID,
		Title:    l.RecordLabel(),
		Start:    start,
		End:      last.Add(day),
		AllDay:   true,
		Color:    LeaveColor(l.LeaveType),
		Category: "leave",
		Source:   "leave",
	}, true
}

// SortEntries orders by start, then all-day first, then title.
func SortEntries(entries []FeedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		return a.Title < b.Title
	})
}

func overlaps(e FeedEntry, from, to time.Time) bool {
	if e.End.Equal(e.Start) {
		return !e.Start.Before(from) && e.Start.Before(to)
	}
	return e.Start.Before(to) && e.End.After(from)
}
