package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/aas/internal/asciiimage"
	"github.com/hpungsan/aas/internal/db"
	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/session"
)

// SaveSessionInput contains parameters for the SaveSession operation.
type SaveSessionInput struct {
	Name string `json:"name"`
}

// SaveSessionOutput contains the result of the SaveSession operation.
type SaveSessionOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageCount int    `json:"image_count"`
	Current    string `json:"current,omitempty"`
	Created    bool   `json:"created"`
}

// SaveSession stores the live studio under name, replacing any session of the same name.
func (e *Env) SaveSession(ctx context.Context, input SaveSessionInput) (*SaveSessionOutput, error) {
	if err := checkContext(ctx, "save session"); err != nil {
		return nil, err
	}
	if err := e.requireDB(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.NewInvalidParameter("session name is required")
	}

	e.mu.Lock()
	payload, err := e.studio.ExportState(e.codec())
	count, current := e.studio.Len(), e.studio.Current()
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rec := &db.Session{
		NameRaw:    input.Name,
		ImageCount: count,
		CurrentKey: current,
		Payload:    payload,
	}
	created, err := db.UpsertSession(ctx, e.DB, rec)
	if err != nil {
		return nil, err
	}

	e.Logger.Info("session saved", "name", rec.NameNorm, "id", rec.ID, "images", count, "created", created)
	return &SaveSessionOutput{
		ID:         rec.ID,
		Name:       rec.NameRaw,
		ImageCount: count,
		Current:    current,
		Created:    created,
	}, nil
}

// LoadSessionInput contains parameters for the LoadSession operation.
type LoadSessionInput struct {
	Name string `json:"name"`
}

// LoadSessionOutput summarizes the studio that replaced the live one.
type LoadSessionOutput struct {
	Name       string   `json:"name"`
	ImageCount int      `json:"image_count"`
	Current    string   `json:"current,omitempty"`
	Keys       []string `json:"keys"`
}

// LoadSession replaces the live studio with a saved session. On any failure
// the live studio is left as it was.
func (e *Env) LoadSession(ctx context.Context, input LoadSessionInput) (*LoadSessionOutput, error) {
	if err := checkContext(ctx, "load session"); err != nil {
		return nil, err
	}
	if err := e.requireDB(); err != nil {
		return nil, err
	}

	rec, err := db.GetSessionByName(ctx, e.DB, input.Name)
	if err != nil {
		return nil, err
	}
	out, err := e.importPayload(rec.Payload)
	if err != nil {
		return nil, err
	}
	out.Name = rec.NameRaw

	e.Logger.Info("session loaded", "name", rec.NameNorm, "images", out.ImageCount)
	return out, nil
}

// importPayload decodes payload and swaps it in as the live studio.
func (e *Env) importPayload(payload []byte) (*LoadSessionOutput, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := e.studio.ImportState(e.codec(), payload)
	if err != nil {
		return nil, err
	}
	e.swap(next)
	return &LoadSessionOutput{
		ImageCount: next.Len(),
		Current:    next.Current(),
		Keys:       next.Keys(),
	}, nil
}

// ListSessionsInput contains parameters for the ListSessions operation.
type ListSessionsInput struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// ListSessionsOutput contains the result of the ListSessions operation.
type ListSessionsOutput struct {
	Items      []db.SessionSummary `json:"items"`
	Pagination Pagination          `json:"pagination"`
}

// ListSessions lists saved sessions, most recently updated first.
func (e *Env) ListSessions(ctx context.Context, input ListSessionsInput) (*ListSessionsOutput, error) {
	if err := checkContext(ctx, "list sessions"); err != nil {
		return nil, err
	}
	if err := e.requireDB(); err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit)
	offset := max(input.Offset, 0)

	items, err := db.ListSessions(ctx, e.DB, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := db.CountSessions(ctx, e.DB)
	if err != nil {
		return nil, err
	}

	return &ListSessionsOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}

// DeleteSessionInput contains parameters for the DeleteSession operation.
type DeleteSessionInput struct {
	Name string `json:"name"`
}

// DeleteSessionOutput contains the result of the DeleteSession operation.
type DeleteSessionOutput struct {
	Deleted bool   `json:"deleted"`
	Name    string `json:"name"`
}

// DeleteSession removes a saved session. The live studio is not affected.
func (e *Env) DeleteSession(ctx context.Context, input DeleteSessionInput) (*DeleteSessionOutput, error) {
	if err := checkContext(ctx, "delete session"); err != nil {
		return nil, err
	}
	if err := e.requireDB(); err != nil {
		return nil, err
	}
	if err := db.DeleteSession(ctx, e.DB, input.Name); err != nil {
		return nil, err
	}

	e.Logger.Info("session deleted", "name", db.NormalizeName(input.Name))
	return &DeleteSessionOutput{Deleted: true, Name: input.Name}, nil
}

// ExportSessionInput contains parameters for the ExportSession operation.
type ExportSessionInput struct {
	// Path is optional; default ~/.aas/exports/<name>.jsonl
	Path string `json:"path,omitempty"`

	// Name exports a saved session instead of the live studio.
	Name string `json:"name,omitempty"`
}

// ExportSessionOutput contains the result of the ExportSession operation.
type ExportSessionOutput struct {
	Path       string `json:"path"`
	ImageCount int    `json:"image_count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportSession writes a session file from the live studio or a saved session.
func (e *Env) ExportSession(ctx context.Context, input ExportSessionInput) (*ExportSessionOutput, error) {
	if err := checkContext(ctx, "export"); err != nil {
		return nil, err
	}

	var payload []byte
	var count int
	if name := strings.TrimSpace(input.Name); name != "" {
		if err := e.requireDB(); err != nil {
			return nil, err
		}
		rec, err := db.GetSessionByName(ctx, e.DB, name)
		if err != nil {
			return nil, err
		}
		payload, count = rec.Payload, rec.ImageCount
	} else {
		e.mu.Lock()
		data, err := e.studio.ExportState(e.codec())
		count = e.studio.Len()
		e.mu.Unlock()
		if err != nil {
			return nil, err
		}
		payload = data
	}

	now := time.Now()
	path := input.Path
	if path == "" {
		base := input.Name
		if base == "" {
			base = "studio-" + now.Format("2006-01-02T150405")
		}
		var err error
		path, err = session.DefaultPath(db.NormalizeName(base))
		if err != nil {
			return nil, err
		}
	}

	if err := session.WriteFile(path, payload, e.Config); err != nil {
		return nil, err
	}

	e.Logger.Info("session exported", "path", path, "images", count)
	return &ExportSessionOutput{
		Path:       path,
		ImageCount: count,
		ExportedAt: now.Unix(),
	}, nil
}

// ImportSessionInput contains parameters for the ImportSession operation.
type ImportSessionInput struct {
	Path string `json:"path"`

	// SaveAs also stores the imported session under this name.
	SaveAs string `json:"save_as,omitempty"`
}

// ImportSession replaces the live studio with the contents of a session file.
// With SaveAs set, the decoded studio is stored first and the live studio is
// only replaced once the save succeeds.
func (e *Env) ImportSession(ctx context.Context, input ImportSessionInput) (*LoadSessionOutput, error) {
	if err := checkContext(ctx, "import"); err != nil {
		return nil, err
	}
	save := input.SaveAs != ""
	if save {
		if err := e.requireDB(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(input.SaveAs) == "" {
			return nil, errors.NewInvalidParameter("session name is required")
		}
	}

	data, err := session.ReadFile(input.Path, e.Config)
	if err != nil {
		return nil, err
	}
	next, err := e.codec().Decode(data)
	if err != nil {
		return nil, err
	}
	out := &LoadSessionOutput{
		ImageCount: next.Len(),
		Current:    next.Current(),
		Keys:       next.Keys(),
	}

	if save {
		payload, err := next.ExportState(e.codec())
		if err != nil {
			return nil, err
		}
		rec := &db.Session{
			NameRaw:    input.SaveAs,
			ImageCount: out.ImageCount,
			CurrentKey: out.Current,
			Payload:    payload,
		}
		created, err := db.UpsertSession(ctx, e.DB, rec)
		if err != nil {
			return nil, err
		}
		out.Name = rec.NameRaw
		e.Logger.Info("session saved", "name", rec.NameNorm, "id", rec.ID, "images", out.ImageCount, "created", created)
	}

	e.mu.Lock()
	e.swap(next)
	e.mu.Unlock()

	e.Logger.Info("session imported", "path", input.Path, "images", out.ImageCount)
	return out, nil
}

// ViewSessionInput contains parameters for the ViewSession operation.
type ViewSessionInput struct {
	Name string `json:"name"`
}

// SessionImage is one rendered image of a saved session.
type SessionImage struct {
	Info asciiimage.Info `json:"info"`
	Text string          `json:"text"`
}

// ViewSessionOutput describes a saved session without loading it.
type ViewSessionOutput struct {
	Name      string         `json:"name"`
	Current   string         `json:"current,omitempty"`
	UpdatedAt int64          `json:"updated_at"`
	Images    []SessionImage `json:"images"`
}

// ViewSession decodes and renders a saved session. The live studio is not touched.
func (e *Env) ViewSession(ctx context.Context, input ViewSessionInput) (*ViewSessionOutput, error) {
	if err := checkContext(ctx, "view session"); err != nil {
		return nil, err
	}
	if err := e.requireDB(); err != nil {
		return nil, err
	}

	rec, err := db.GetSessionByName(ctx, e.DB, input.Name)
	if err != nil {
		return nil, err
	}
	s, err := e.codec().Decode(rec.Payload)
	if err != nil {
		return nil, err
	}

	out := &ViewSessionOutput{
		Name:      rec.NameRaw,
		Current:   s.Current(),
		UpdatedAt: rec.UpdatedAt,
		Images:    make([]SessionImage, 0, s.Len()),
	}
	for _, img := range s.Images() {
		out.Images = append(out.Images, SessionImage{
			Info: img.Info(),
			Text: img.Grid().String(),
		})
	}
	return out, nil
}
