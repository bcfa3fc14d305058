package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mess-mate/internal/model"
	"mess-mate/internal/store"
)

var ErrBadDate = errors.New("date must be YYYY-MM-DD")

type MealService struct{ coll store.Collection }

func NewMealService(st store.Store) *MealService {
	return &MealService{coll: st.Collection(model.CollMealSelections)}
}

// SelectionID is the deterministic per-user per-day record key.
func SelectionID(userID, date string) string {
	return userID + "_" + date
}

// SubmitMealSelection merge-writes the user's choices for one calendar
// day: a resubmission lands in the same record, createdAt survives the
// merge, updatedAt is restamped.
func (s *MealService) SubmitMealSelection(ctx context.Context, userID, date string, sel model.Selections) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrBadDate
	}

	selections, err := store.Encode(sel)
	if err != nil {
		return err
	}
	partial := store.Doc{
		"userId":     userID,
		"date":       date,
		"selections": selections,
		"updatedAt":  now(),
	}

	id := SelectionID(userID, date)
	if _, err := s.coll.Get(ctx, id); errors.Is(err, store.ErrNotFound) {
		partial["createdAt"] = now()
	} else if err != nil {
		return fmt.Errorf("check selection: %w", err)
	}

	return s.coll.Put(ctx, id, partial)
}

// GetSelection returns the user's record for the day, nil when none
// exists yet.
func (s *MealService) GetSelection(ctx context.Context, userID, date string) (*model.MealSelection, error) {
	doc, err := s.coll.Get(ctx, SelectionID(userID, date))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m model.MealSelection
	if err := store.Decode(doc, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SubscribeToSelection delivers the user's record for the day on every
// change, nil while none exists.
func (s *MealService) SubscribeToSelection(userID, date string, cb func(*model.MealSelection), onErr func(error)) func() {
	id := SelectionID(userID, date)
	return s.coll.Subscribe("", func(recs []store.Record) {
		for _, r := range recs {
			if r.ID != id {
				continue
			}
			var m model.MealSelection
			if err := store.Decode(r.Doc, &m); err != nil {
				if onErr != nil {
					onErr(err)
				}
				break
			}
			cb(&m)
			return
		}
		cb(nil)
	}, onErr)
}

func (s *MealService) GetSelectionsForDate(ctx context.Context, date string) ([]model.MealSelection, error) {
	recs, err := s.coll.Find(ctx, "date", date)
	if err != nil {
		return nil, err
	}
	list := []model.MealSelection{}
	for _, r := range recs {
		var m model.MealSelection
		if err := store.Decode(r.Doc, &m); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, nil
}

// GetMealStatistics counts, for one day, how many users picked each
// meal; Total is the number of users who submitted at all.
func (s *MealService) GetMealStatistics(ctx context.Context, date string) (model.MealStats, error) {
	selections, err := s.GetSelectionsForDate(ctx, date)
	if err != nil {
		return model.MealStats{}, err
	}

	stats := model.MealStats{Total: len(selections)}
	for _, sel := range selections {
		if sel.Selections.Breakfast {
			stats.Breakfast++
		}
		if sel.Selections.Lunch {
			stats.Lunch++
		}
		if sel.Selections.Dinner {
			stats.Dinner++
		}
	}
	return stats, nil
}
