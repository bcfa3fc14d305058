package service

import (
	"context"
	"errors"

	"mess-mate/internal/model"
	"mess-mate/internal/store"
)

// MenuService manages the singleton daily menu document.
type MenuService struct{ mess store.Collection }

func NewMenuService(st store.Store) *MenuService {
	return &MenuService{mess: st.Collection(model.CollMess)}
}

func (s *MenuService) GetMenu(ctx context.Context) (model.Menu, error) {
	doc, err := s.mess.Get(ctx, model.DailyMenuID)
	if errors.Is(err, store.ErrNotFound) {
		// No menu published yet; callers render the empty menu.
		return model.Menu{}, nil
	}
	if err != nil {
		return model.Menu{}, err
	}
	var m model.Menu
	if err := store.Decode(doc, &m); err != nil {
		return model.Menu{}, err
	}
	return m, nil
}

// SubscribeToMenu delivers the current menu on every change. A missing
// document and a transport failure both deliver the zero menu so the
// consumer never hangs on a loading state.
func (s *MenuService) SubscribeToMenu(cb func(model.Menu), onErr func(error)) func() {
	return s.mess.Subscribe("", func(recs []store.Record) {
		var m model.Menu
		for _, r := range recs {
			if r.ID == model.DailyMenuID {
				if err := store.Decode(r.Doc, &m); err != nil && onErr != nil {
					onErr(err)
				}
				break
			}
		}
		cb(m)
	}, onErr)
}

// UpdateDailyMenu merge-writes the supplied fields; nil fields stay
// untouched.
func (s *MenuService) UpdateDailyMenu(ctx context.Context, req model.MenuUpdateRequest) error {
	partial := store.Doc{}
	if req.Breakfast != nil {
		partial["breakfast"] = *req.Breakfast
	}
	if req.Lunch != nil {
		partial["lunch"] = *req.Lunch
	}
	if req.Dinner != nil {
		partial["dinner"] = *req.Dinner
	}
	if len(partial) == 0 {
		return nil
	}
	return s.mess.Put(ctx, model.DailyMenuID, partial)
}
