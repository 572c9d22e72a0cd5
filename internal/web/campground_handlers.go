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

type indexData struct {
	Campgrounds []*campground.Campground
}

type showData struct {
	Campground *campground.Campground
	Comments   []*comment.Comment
}

// handleLanding renders the landing page.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "landing.html", nil)
}

// handleCampgroundIndex renders all campgrounds, newest first.
func (s *Server) handleCampgroundIndex(w http.ResponseWriter, r *http.Request) {
	campgrounds, err := s.campgrounds.List()
	if err != nil {
		slog.Error("listing campgrounds", "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong loading campgrounds")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.render(w, r, "campgrounds_index.html", indexData{Campgrounds: campgrounds})
}

// handleCampgroundNew renders the create form.
func (s *Server) handleCampgroundNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "campgrounds_new.html", nil)
}

// handleCampgroundCreate geocodes the location and persists a new
// campground. Any gate failure rejects the whole operation; nothing
// partial is ever written.
func (s *Server) handleCampgroundCreate(w http.ResponseWriter, r *http.Request) {
	form := campgroundForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		ImageURL:    strings.TrimSpace(r.FormValue("image")),
	}
	if err := s.validate.Struct(form); err != nil {
		s.flash.Add(w, r, flashError, validationMessage(err))
		http.Redirect(w, r, "/campgrounds/new", http.StatusSeeOther)
		return
	}

	loc, err := s.geocoder.Lookup(form.Location)
	if err != nil {
		slog.Warn("geocoding failed", "location", form.Location, "err", err)
		s.flash.Add(w, r, flashError, "Address could not be found")
		http.Redirect(w, r, "/campgrounds/new", http.StatusSeeOther)
		return
	}

	created, err := s.campgrounds.Insert(&campground.Campground{
		Name:        form.Name,
		Description: form.Description,
		ImageURL:    form.ImageURL,
		Location:    loc.FormattedAddress,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		UserID:      currentUser(r).ID,
	})
	if err != nil {
		slog.Error("creating campground", "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong creating the campground")
		http.Redirect(w, r, "/campgrounds/new", http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, "Campground created")
	http.Redirect(w, r, fmt.Sprintf("/campgrounds/%d", created.ID), http.StatusSeeOther)
}

// handleCampgroundShow renders a campground with its comments.
func (s *Server) handleCampgroundShow(w http.ResponseWriter, r *http.Request) {
	cg, ok := s.loadCampground(w, r)
	if !ok {
		return
	}

	comments, err := s.comments.ListByCampgroundID(cg.ID)
	if err != nil {
		slog.Error("listing comments", "campground", cg.ID, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong loading comments")
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return
	}

	s.render(w, r, "campgrounds_show.html", showData{Campground: cg, Comments: comments})
}

// handleCampgroundEdit renders the edit form, owner only.
func (s *Server) handleCampgroundEdit(w http.ResponseWriter, r *http.Request) {
	cg, ok := s.loadOwnedCampground(w, r)
	if !ok {
		return
	}
	s.render(w, r, "campgrounds_edit.html", showData{Campground: cg})
}

// handleCampgroundUpdate rewrites an owned campground. A changed
// location is re-geocoded; a failed lookup rejects the whole update.
func (s *Server) handleCampgroundUpdate(w http.ResponseWriter, r *http.Request) {
	cg, ok := s.loadOwnedCampground(w, r)
	if !ok {
		return
	}

	form := campgroundForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		ImageURL:    strings.TrimSpace(r.FormValue("image")),
	}
	editURL := fmt.Sprintf("/campgrounds/%d/edit", cg.ID)
	if err := s.validate.Struct(form); err != nil {
		s.flash.Add(w, r, flashError, validationMessage(err))
		http.Redirect(w, r, editURL, http.StatusSeeOther)
		return
	}

	cg.Name = form.Name
	cg.Description = form.Description
	cg.ImageURL = form.ImageURL

	if form.Location != cg.Location {
		loc, err := s.geocoder.Lookup(form.Location)
		if err != nil {
			slog.Warn("geocoding failed", "location", form.Location, "err", err)
			s.flash.Add(w, r, flashError, "Address could not be found")
			http.Redirect(w, r, editURL, http.StatusSeeOther)
			return
		}
		cg.Location = loc.FormattedAddress
		cg.Latitude = loc.Latitude
		cg.Longitude = loc.Longitude
	}

	if err := s.campgrounds.Update(cg); err != nil {
		slog.Error("updating campground", "campground", cg.ID, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong updating the campground")
		http.Redirect(w, r, editURL, http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, "Campground updated")
	http.Redirect(w, r, fmt.Sprintf("/campgrounds/%d", cg.ID), http.StatusSeeOther)
}

// handleCampgroundDelete removes an owned campground and its comments.
func (s *Server) handleCampgroundDelete(w http.ResponseWriter, r *http.Request) {
	cg, ok := s.loadOwnedCampground(w, r)
	if !ok {
		return
	}

	if err := s.campgrounds.Delete(cg.ID); err != nil {
		slog.Error("deleting campground", "campground", cg.ID, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong deleting the campground")
		http.Redirect(w, r, fmt.Sprintf("/campgrounds/%d", cg.ID), http.StatusSeeOther)
		return
	}

	s.flash.Add(w, r, flashSuccess, "Campground deleted")
	http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
}

// loadCampground resolves {campgroundID}. A missing campground
// short-circuits with a not-found flash.
func (s *Server) loadCampground(w http.ResponseWriter, r *http.Request) (*campground.Campground, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "campgroundID"), 10, 64)
	if err != nil {
		s.flash.Add(w, r, flashError, "Campground not found")
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return nil, false
	}

	cg, err := s.campgrounds.GetByID(id)
	if errors.Is(err, campground.ErrNotFound) {
		s.flash.Add(w, r, flashError, "Campground not found")
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return nil, false
	}
	if err != nil {
		slog.Error("loading campground", "campground", id, "err", err)
		s.flash.Add(w, r, flashError, "Something went wrong")
		http.Redirect(w, r, "/campgrounds", http.StatusSeeOther)
		return nil, false
	}

	return cg, true
}

// loadOwnedCampground resolves {campgroundID} and enforces ownership.
// The existence check always runs first: ownership is never evaluated
// against a missing resource.
func (s *Server) loadOwnedCampground(w http.ResponseWriter, r *http.Request) (*campground.Campground, bool) {
	cg, ok := s.loadCampground(w, r)
	if !ok {
		return nil, false
	}

	if cg.UserID != currentUser(r).ID {
		s.flash.Add(w, r, flashError, "You don't have permission to do that")
		redirectBack(w, r, fmt.Sprintf("/campgrounds/%d", cg.ID))
		return nil, false
	}

	return cg, true
}
