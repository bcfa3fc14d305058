package service

import (
	"context"
	"fmt"

	"mess-mate/internal/model"
	"mess-mate/internal/store"
)

type AnnouncementService struct{ coll store.Collection }

func NewAnnouncementService(st store.Store) *AnnouncementService {
	return &AnnouncementService{coll: st.Collection(model.CollAnnouncements)}
}

// Create publishes a new announcement, active by default.
func (s *AnnouncementService) Create(ctx context.Context, title, message, priority, createdBy string) (model.Announcement, error) {
	if priority == "" {
		priority = model.PriorityNormal
	}
	a := model.Announcement{
		Title:     title,
		Message:   message,
		Priority:  priority,
		IsActive:  true,
		CreatedAt: now(),
		CreatedBy: createdBy,
	}
	doc, err := store.Encode(a)
	if err != nil {
		return model.Announcement{}, err
	}
	id, err := s.coll.Create(ctx, doc)
	if err != nil {
		return model.Announcement{}, fmt.Errorf("create announcement: %w", err)
	}
	a.ID = id
	return a, nil
}

// GetActive returns active announcements, newest first.
func (s *AnnouncementService) GetActive(ctx context.Context) ([]model.Announcement, error) {
	recs, err := s.coll.GetAll(ctx, "createdAt")
	if err != nil {
		return nil, err
	}
	return decodeAnnouncements(recs, true)
}

// GetAll returns every announcement, including deactivated ones.
func (s *AnnouncementService) GetAll(ctx context.Context) ([]model.Announcement, error) {
	recs, err := s.coll.GetAll(ctx, "createdAt")
	if err != nil {
		return nil, err
	}
	return decodeAnnouncements(recs, false)
}

// Subscribe delivers the active announcements, newest first, on every
// change.
func (s *AnnouncementService) Subscribe(cb func([]model.Announcement), onErr func(error)) func() {
	return s.coll.Subscribe("createdAt", func(recs []store.Record) {
		list, err := decodeAnnouncements(recs, true)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			cb([]model.Announcement{})
			return
		}
		cb(list)
	}, onErr)
}

// Toggle flips the soft-delete flag; the record itself stays.
func (s *AnnouncementService) Toggle(ctx context.Context, id string, isActive bool) error {
	return s.coll.Update(ctx, id, store.Doc{"isActive": isActive, "updatedAt": now()})
}

// Delete removes the announcement for good.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	return s.coll.Delete(ctx, id)
}

func decodeAnnouncements(recs []store.Record, activeOnly bool) ([]model.Announcement, error) {
	list := []model.Announcement{}
	for _, r := range recs {
		var a model.Announcement
		if err := store.Decode(r.Doc, &a); err != nil {
			return nil, err
		}
		if activeOnly && !a.IsActive {
			continue
		}
		a.ID = r.ID
		list = append(list, a)
	}
	return list, nil
}
