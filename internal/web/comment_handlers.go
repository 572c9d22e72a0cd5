package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rvanderp/campfinder/internal/campground"
	"github.com/rvanderp/campfinder/internal/comment"
)

type commentFormData struct {
	Campground *campground.Campground
	Comment    *comment.Comment
}

// handleCommentNew renders the comment form for a campground.
func (s *Server) handleCommentNew(w http.ResponseWriter, r *http.Request) {
	cg, ok := s.loadCampground(w, r)
	if !ok {
		return
	}
	s.render(w, r, "comments_new.html", commentFormData{Campground: cg})
}

// handleCommentCreate adds a comment to a campground.
func (s *Server) handleCommentCreate(w http.ResponseWriter, r *http.Request) {
	cg, ok := s.loadCampground(w, r)
	if !ok {
		return
	}

	form := commentForm{Text: strings.TrimSpace(r.FormValue("text"))}
	showURL := fmt.Sprintf("/campgrounds/%d", cg.ID)
	if err := s.validate.Struct(form); err != nil {
		s.flash.Add(w, r, flashError, validationMessage(err))
		http.Redirect(w, r, showURL, http.StatusSeeOther)
		return
	}

	if _, err := s.comments.Add(cg.ID, currentUser(r).ID, form.Text); err != nil {
		slog.Error("adding comment", "campground", cg.ID, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong adding the comment")
		http.Redirect(w, r, showURL, http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, "Comment added")
	http.Redirect(w, r, showURL, http.StatusSeeOther)
}

// handleCommentEdit renders the edit form, author only.
func (s *Server) handleCommentEdit(w http.ResponseWriter, r *http.Request) {
	cg, c, ok := s.loadAuthoredComment(w, r)
	if !ok {
		return
	}
	s.render(w, r, "comments_edit.html", commentFormData{Campground: cg, Comment: c})
}

// handleCommentUpdate replaces a comment's text, author only.
func (s *Server) handleCommentUpdate(w http.ResponseWriter, r *http.Request) {
	cg, c, ok := s.loadAuthoredComment(w, r)
	if !ok {
		return
	}

	form := commentForm{Text: strings.TrimSpace(r.FormValue("text"))}
	showURL := fmt.Sprintf("/campgrounds/%d", cg.ID)
	if err := s.validate.Struct(form); err != nil {
		s.flash.Add(w, r, flashError, validationMessage(err))
		http.Redirect(w, r, showURL, http.StatusSeeOther)
		return
	}

	if err := s.comments.Update(c.ID, form.Text); err != nil {
		slog.Error("updating comment", "comment", c.ID, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong updating the comment")
		http.Redirect(w, r, showURL, http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, "Comment updated")
	http.Redirect(w, r, showURL, http.StatusSeeOther)
}

// handleCommentDelete removes a comment, author only.
func (s *Server) handleCommentDelete(w http.ResponseWriter, r *http.Request) {
	cg, c, ok := s.loadAuthoredComment(w, r)
	if !ok {
		return
	}

	showURL := fmt.Sprintf("/campgrounds/%d", cg.ID)
	if err := s.comments.Delete(c.ID); err != nil {
		slog.Error("deleting comment", "comment", c.ID, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong deleting the comment")
		http.Redirect(w, r, showURL, http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, "Comment deleted")
	http.Redirect(w, r, showURL, http.StatusSeeOther)
}

// loadAuthoredComment resolves both route ids and enforces that the
// current user authored the comment. Existence is checked before
// authorship, and the comment must belong to the routed campground.
func (s *Server) loadAuthoredComment(w http.ResponseWriter, r *http.Request) (*campground.Campground, *comment.Comment, bool) {
	cg, ok := s.loadCampground(w, r)
	if !ok {
		return nil, nil, false
	}

	showURL := fmt.Sprintf("/campgrounds/%d", cg.ID)

	id, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		s.flash.Add(w, r, flashError, "Comment not found")
		http.Redirect(w, r, showURL, http.StatusSeeOther)
		return nil, nil, false
	}

	c, err := s.comments.GetByID(id)
	if errors.Is(err, comment.ErrNotFound) || (err == nil && c.CampgroundID != cg.ID) {
		s.flash.Add(w, r, flashError, "Comment not found")
		http.Redirect(w, r, showURL, http.StatusSeeOther)
		return nil, nil, false
	}
	if err != nil {
		slog.Error("loading comment", "comment", id, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong")
		http.Redirect(w, r, showURL, http.StatusSeeOther)
		return nil, nil, false
	}

	if c.UserID != currentUser(r).ID {
		s.flash.Add(w, r, flashError, "You don't have permission to do that")
		redirectBack(w, r, showURL)
		return nil, nil, false
	}

	return cg, c, true
}
