package service

import (
	"context"
	"fmt"

	"mess-mate/internal/model"
	"mess-mate/internal/store"
)

// FeedbackService covers both the feedback and complaint collections;
// students append, administrators triage.
type FeedbackService struct {
	feedback   store.Collection
	complaints store.Collection
}

func NewFeedbackService(st store.Store) *FeedbackService {
	return &FeedbackService{
		feedback:   st.Collection(model.CollFeedback),
		complaints: st.Collection(model.CollComplaints),
	}
}

func (s *FeedbackService) SubmitFeedback(ctx context.Context, userID, userEmail, text, typ string) (model.Feedback, error) {
	if typ == "" {
		typ = "suggestion"
	}
	f := model.Feedback{
		UserID:    userID,
		UserEmail: userEmail,
		Feedback:  text,
		Type:      typ,
		Status:    model.StatusPending,
		CreatedAt: now(),
	}
	doc, err := store.Encode(f)
	if err != nil {
		return model.Feedback{}, err
	}
	id, err := s.feedback.Create(ctx, doc)
	if err != nil {
		return model.Feedback{}, fmt.Errorf("submit feedback: %w", err)
	}
	f.ID = id
	return f, nil
}

func (s *FeedbackService) SubmitComplaint(ctx context.Context, userID, userEmail, text, category string) (model.Complaint, error) {
	if category == "" {
		category = model.CategoryGeneral
	}
	c := model.Complaint{
		UserID:    userID,
		UserEmail: userEmail,
		Complaint: text,
		Category:  category,
		Status:    model.StatusPending,
		CreatedAt: now(),
	}
	doc, err := store.Encode(c)
	if err != nil {
		return model.Complaint{}, err
	}
	id, err := s.complaints.Create(ctx, doc)
	if err != nil {
		return model.Complaint{}, fmt.Errorf("submit complaint: %w", err)
	}
	c.ID = id
	return c, nil
}

func (s *FeedbackService) GetAllFeedback(ctx context.Context) ([]model.Feedback, error) {
	recs, err := s.feedback.GetAll(ctx, "createdAt")
	if err != nil {
		return nil, err
	}
	return decodeFeedback(recs)
}

func (s *FeedbackService) GetAllComplaints(ctx context.Context) ([]model.Complaint, error) {
	recs, err := s.complaints.GetAll(ctx, "createdAt")
	if err != nil {
		return nil, err
	}
	return decodeComplaints(recs)
}

func (s *FeedbackService) SubscribeToFeedback(cb func([]model.Feedback), onErr func(error)) func() {
	return s.feedback.Subscribe("createdAt", func(recs []store.Record) {
		list, err := decodeFeedback(recs)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			cb([]model.Feedback{})
			return
		}
		cb(list)
	}, onErr)
}

func (s *FeedbackService) SubscribeToComplaints(cb func([]model.Complaint), onErr func(error)) func() {
	return s.complaints.Subscribe("createdAt", func(recs []store.Record) {
		list, err := decodeComplaints(recs)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			cb([]model.Complaint{})
			return
		}
		cb(list)
	}, onErr)
}

// UpdateComplaintStatus transitions a complaint. resolvedAt is stamped
// only when the status becomes resolved; the response overwrites the
// prior one only when non-empty.
func (s *FeedbackService) UpdateComplaintStatus(ctx context.Context, id, status, response string) error {
	partial := store.Doc{"status": status, "updatedAt": now()}
	if status == model.StatusResolved {
		partial["resolvedAt"] = now()
	}
	if response != "" {
		partial["adminResponse"] = response
	}
	return s.complaints.Update(ctx, id, partial)
}

// GetUserFeedback returns one user's submissions from both
// collections. Both are fetched whole and filtered here on exact
// userId equality.
func (s *FeedbackService) GetUserFeedback(ctx context.Context, userID string) (model.UserFeedback, error) {
	out := model.UserFeedback{Feedback: []model.Feedback{}, Complaints: []model.Complaint{}}

	feedback, err := s.GetAllFeedback(ctx)
	if err != nil {
		return out, err
	}
	complaints, err := s.GetAllComplaints(ctx)
	if err != nil {
		return out, err
	}

	for _, f := range feedback {
		if f.UserID == userID {
			out.Feedback = append(out.Feedback, f)
		}
	}
	for _, c := range complaints {
		if c.UserID == userID {
			out.Complaints = append(out.Complaints, c)
		}
	}
	return out, nil
}

func decodeFeedback(recs []store.Record) ([]model.Feedback, error) {
	list := []model.Feedback{}
	for _, r := range recs {
		var f model.Feedback
		if err := store.Decode(r.Doc, &f); err != nil {
			return nil, err
		}
		f.ID = r.ID
		list = append(list, f)
	}
	return list, nil
}

func decodeComplaints(recs []store.Record) ([]model.Complaint, error) {
	list := []model.Complaint{}
	for _, r := range recs {
		var c model.Complaint
		if err := store.Decode(r.Doc, &c); err != nil {
			return nil, err
		}
		c.ID = r.ID
		list = append(list, c)
	}
	return list, nil
}
