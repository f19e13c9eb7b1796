package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

const immutableCache = "public, max-age=31536000"

// readUpload pulls a single file from the multipart field. Oversized bodies
// are reported as validation errors.
func readUpload(w http.ResponseWriter, r *http.Request, field string, kind models.AssetKind) (services.UploadInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+multipartOverhead)

	file, header, err := r.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.UploadInput{}, &services.ValidationError{Violations: map[string]string{
				field: "file too large, maximum size is 5MB",
			}}
		}
		return services.UploadInput{}, &services.ValidationError{Violations: map[string]string{
			field: "no file uploaded",
		}}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.UploadInput{}, &services.ValidationError{Violations: map[string]string{
				field: "file too large, maximum size is 5MB",
			}}
		}
		return services.UploadInput{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = mt
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}

	in := services.UploadInput{
		Kind:         kind,
		Data:         data,
		MimeType:     mimeType,
		OriginalName: header.Filename,
	}
	if acc := accountFrom(r.Context()); acc != nil {
		in.UploadedBy = acc.ID
	}
	if pid := r.FormValue("projectId"); pid != "" {
		in.ProjectID = &pid
	}
	return in, nil
}

func writeBlob(w http.ResponseWriter, c *models.AssetContent, cache string) {
	w.Header().Set("Content-Type", c.Asset.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(c.Data)))
	w.Header().Set("Cache-Control", cache)
	w.Header().Set("ETag", fmt.Sprintf("%q", c.Asset.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Data)
}

func writeAttachment(w http.ResponseWriter, c *models.AssetContent, cache string) {
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": c.Asset.OriginalName,
	}))
	writeBlob(w, c, cache)
}

func pageOf[T any](p *models.Page[T]) pagination {
	return pagination{
		Page:       p.Page,
		Limit:      p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}
}

func (a *API) uploadImage(w http.ResponseWriter, r *http.Request) {
	in, err := readUpload(w, r, "image", models.AssetImage)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	asset, err := a.Blobs.Upload(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	created(w, "Image uploaded successfully", asset)
}

func (a *API) getImage(w http.ResponseWriter, r *http.Request) {
	c, err := a.Blobs.Fetch(r.Context(), models.AssetImage, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeBlob(w, c, immutableCache)
}

func (a *API) listImages(w http.ResponseWriter, r *http.Request) {
	filter := models.AssetFilter{ProjectID: r.URL.Query().Get("projectId"), ActiveOnly: true}
	p, err := a.Blobs.List(r.Context(), models.AssetImage, filter, queryInt(r, "page", 1), queryInt(r, "limit", 0))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	paged(w, p.Items, pageOf(p))
}

type imageUpdateRequest struct {
	Filename  *string `json:"filename"`
	ProjectID *string `json:"projectId"`
}

func (a *API) updateImage(w http.ResponseWriter, r *http.Request) {
	var req imageUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	asset, err := a.Blobs.UpdateImage(r.Context(), chi.URLParam(r, "id"), req.Filename, req.ProjectID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Image updated successfully", asset)
}

func (a *API) deleteImage(w http.ResponseWriter, r *http.Request) {
	if err := a.Blobs.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Image deleted successfully", nil)
}

func (a *API) uploadResume(w http.ResponseWriter, r *http.Request) {
	in, err := readUpload(w, r, "resume", models.AssetResume)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	in.ProjectID = nil
	asset, err := a.Blobs.Upload(r.Context(), in)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	created(w, "Resume uploaded successfully", asset)
}

func (a *API) listResumes(w http.ResponseWriter, r *http.Request) {
	p, err := a.Blobs.List(r.Context(), models.AssetResume, models.AssetFilter{}, queryInt(r, "page", 1), queryInt(r, "limit", 0))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	paged(w, p.Items, pageOf(p))
}

// resumeInfo answers with null data when no résumé is active.
func (a *API) resumeInfo(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Blobs.ActiveResume(r.Context())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": nil, "message": "No active resume found"})
			return
		}
		a.writeError(w, r, err)
		return
	}
	ok(w, asset)
}

func (a *API) activateResume(w http.ResponseWriter, r *http.Request) {
	asset, err := a.Blobs.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Resume activated successfully", asset)
}

func (a *API) downloadResume(w http.ResponseWriter, r *http.Request) {
	c, err := a.Blobs.Fetch(r.Context(), models.AssetResume, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeAttachment(w, c, immutableCache)
}

func (a *API) downloadActiveResume(w http.ResponseWriter, r *http.Request) {
	c, err := a.Blobs.FetchActiveResume(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	// the active résumé can change under the same URL
	writeAttachment(w, c, "no-cache")
}

func (a *API) deleteResume(w http.ResponseWriter, r *http.Request) {
	if err := a.Blobs.DeleteResume(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	message(w, "Resume deleted successfully", nil)
}
