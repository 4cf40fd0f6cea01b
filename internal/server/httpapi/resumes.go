package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/resumehub/internal/server/models"
	"github.com/dmitrijs2005/resumehub/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// parseOrder reads ?orderKey=<key>&orderValue=asc|desc. Unknown keys fall
// back to creation time; anything but "asc" sorts descending.
func parseOrder(r *http.Request) models.ResumeOrder {
	order := models.DefaultResumeOrder
	if key := r.URL.Query().Get("orderKey"); key != "" {
		order.Key = key
	}
	order.Desc = !strings.EqualFold(r.URL.Query().Get("orderValue"), "asc")
	return order
}

func (s *HTTPServer) listResumes(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Resumes.List(r.Context(), parseOrder(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, toResumeDTOs(list))
}

func (s *HTTPServer) getResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.services.Resumes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, toResumeDTO(resume))
}

func (s *HTTPServer) createResume(w http.ResponseWriter, r *http.Request) {
	var in services.ResumeInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	resume, err := s.services.Resumes.Create(r.Context(), actorFromContext(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusCreated, toResumeDTO(resume))
}

func (s *HTTPServer) updateResume(w http.ResponseWriter, r *http.Request) {
	s.patchResume(w, r, s.services.Resumes.Update)
}

func (s *HTTPServer) adminUpdateResume(w http.ResponseWriter, r *http.Request) {
	s.patchResume(w, r, s.services.Resumes.AdminUpdate)
}

func (s *HTTPServer) deleteResume(w http.ResponseWriter, r *http.Request) {
	s.removeResume(w, r, s.services.Resumes.Delete)
}

func (s *HTTPServer) adminDeleteResume(w http.ResponseWriter, r *http.Request) {
	s.removeResume(w, r, s.services.Resumes.AdminDelete)
}

func (s *HTTPServer) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	att, err := s.services.Resumes.AttachmentUploadURL(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, att)
}

func (s *HTTPServer) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	att, err := s.services.Resumes.AttachmentDownloadURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, att)
}

type (
	patchFunc  func(ctx context.Context, actor services.Actor, id string, patch services.ResumePatch) (*services.ResumeUpdate, error)
	deleteFunc func(ctx context.Context, actor services.Actor, id string) (*models.Resume, error)
)

func (s *HTTPServer) patchResume(w http.ResponseWriter, r *http.Request, apply patchFunc) {
	var patch services.ResumePatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := apply(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, updateDTO[resumeDTO]{Item: toResumeDTO(res.Resume), Changes: toChangeDTOs(res.Changes)})
}

// removeResume responds with the résumé as it was before deletion.
func (s *HTTPServer) removeResume(w http.ResponseWriter, r *http.Request, remove deleteFunc) {
	deleted, err := remove(r.Context(), actorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, http.StatusOK, toResumeDTO(deleted))
}
