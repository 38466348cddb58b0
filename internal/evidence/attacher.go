// Package evidence uploads files for a complaint and links them to it.
package evidence

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"grievanceportal/backend/internal/access"
	"grievanceportal/backend/internal/blob"
	"grievanceportal/backend/internal/complaint"
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
	"grievanceportal/backend/internal/storage"
	"io"
	"log"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	sniffLen = 3072

	// maxSlotAttempts bounds the search for a free blob key when concurrent
	// uploads to the same complaint race for the same index.
	maxSlotAttempts = 32
)

// File is one upload candidate. Size and ContentType are as declared by the client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// PartialUploadError reports that some files were attached before one failed.
// Already attached files stay attached.
type PartialUploadError struct {
	Attached  []string
	FailedAt  int
	Remaining int
	Err       error
}

func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("evidence upload stopped at file %d (%d attached, %d not attached): %v",
		e.FailedAt+1, len(e.Attached), e.Remaining, e.Err)
}

func (e *PartialUploadError) Unwrap() error { return e.Err }

type Attacher struct {
	Storage    storage.Storage
	Blobs      blob.Store
	Complaints *complaint.Service
}

func NewAttacher(s storage.Storage, blobs blob.Store, complaints *complaint.Service) *Attacher {
	return &Attacher{Storage: s, Blobs: blobs, Complaints: complaints}
}

// Validate checks a batch on its own: count, declared size and declared type.
func Validate(files []File) error {
	if len(files) > config.MaxEvidenceFiles {
		return fmt.Errorf("%w: %d files, at most %d allowed", models.ErrTooManyFiles, len(files), config.MaxEvidenceFiles)
	}
	for i, f := range files {
		if f.Size > config.MaxEvidenceFileSize {
			return fmt.Errorf("%w: %s is %d bytes, limit is %d", models.ErrFileTooLarge, displayName(f, i), f.Size, config.MaxEvidenceFileSize)
		}
		if _, ok := config.AllowedEvidenceTypes[normalizeType(f.ContentType)]; !ok {
			return fmt.Errorf("%w: %s has type %q", models.ErrUnsupportedFileType, displayName(f, i), f.ContentType)
		}
		if f.Content == nil {
			return models.Invalid("files", "%s has no content", displayName(f, i))
		}
	}
	return nil
}

// Attach uploads files one at a time and links each to the complaint,
// returning the new evidence IDs in order. The caller must be allowed to attach
// before the batch is looked at. The whole batch is checked next; a batch that
// fails checks performs no uploads. A failure part-way through returns
// *PartialUploadError and keeps earlier files attached.
//
// The count check here is an early answer only. Each link re-checks the limit
// under the complaint's row lock, so concurrent batches cannot exceed it.
func (a *Attacher) Attach(ctx context.Context, p *models.Principal, complaintID string, files []File) ([]string, error) {
	c, err := a.Complaints.Authorize(ctx, p, complaintID, access.AttachEvidence)
	if err != nil {
		return nil, err
	}
	if err := Validate(files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []string{}, nil
	}

	existing, err := a.Storage.CountEvidence(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if existing+int64(len(files)) > config.MaxEvidenceFiles {
		return nil, fmt.Errorf("%w: complaint already has %d files, at most %d allowed",
			models.ErrTooManyFiles, existing, config.MaxEvidenceFiles)
	}

	readers := make([]*bufio.Reader, len(files))
	for i, f := range files {
		br := bufio.NewReaderSize(f.Content, sniffLen)
		head, err := br.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("read %s: %w", displayName(f, i), err)
		}
		if !mimetype.Detect(head).Is(normalizeType(f.ContentType)) {
			return nil, fmt.Errorf("%w: %s content does not match %q", models.ErrUnsupportedFileType, displayName(f, i), f.ContentType)
		}
		readers[i] = br
	}

	attached := make([]string, 0, len(files))
	for i, f := range files {
		id, err := a.attachOne(ctx, c.ID, int(existing)+i, f, readers[i])
		if err != nil {
			log.Printf("ERROR: Evidence upload %d/%d for complaint %s failed: %v", i+1, len(files), c.ID, err)
			if len(attached) > 0 {
				a.Complaints.NotifyEvidence(ctx, c)
			}
			return attached, &PartialUploadError{
				Attached:  attached,
				FailedAt:  i,
				Remaining: len(files) - i,
				Err:       err,
			}
		}
		attached = append(attached, id)
	}

	a.Complaints.NotifyEvidence(ctx, c)
	return attached, nil
}

func (a *Attacher) attachOne(ctx context.Context, complaintID string, index int, f File, r io.Reader) (string, error) {
	contentType := normalizeType(f.ContentType)
	limited := &limitReader{r: r, remaining: config.MaxEvidenceFileSize}

	var key string
	for attempt := 0; ; attempt++ {
		if attempt == maxSlotAttempts {
			return "", fmt.Errorf("no free evidence slot for complaint %s after %d attempts", complaintID, attempt)
		}
		key = Path(complaintID, index+attempt, contentType)
		err := a.Blobs.Create(ctx, key, limited)
		if errors.Is(err, blob.ErrExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		break
	}

	ev := &models.Evidence{
		ComplaintID: complaintID,
		FilePath:    key,
		FileName:    f.Name,
		FileType:    contentType,
		Size:        limited.read,
	}
	if err := a.Storage.CreateEvidence(ctx, ev, config.MaxEvidenceFiles); err != nil {
		if delErr := a.Blobs.Delete(ctx, key); delErr != nil {
			log.Printf("WARNING: Orphaned evidence blob %s: %v", key, delErr)
		}
		return "", err
	}
	return ev.ID, nil
}

// Open returns the stored file for one evidence record visible to p.
func (a *Attacher) Open(ctx context.Context, p *models.Principal, complaintID, evidenceID string) (*models.Evidence, io.ReadCloser, error) {
	if _, err := a.Complaints.Authorize(ctx, p, complaintID, access.ViewComplaint); err != nil {
		return nil, nil, err
	}
	ev, err := a.Storage.GetEvidence(ctx, complaintID, evidenceID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := a.Blobs.Open(ctx, ev.FilePath)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, nil, models.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return ev, rc, nil
}

// Path is the blob key for the index-th evidence file of a complaint.
func Path(complaintID string, index int, contentType string) string {
	ext := config.AllowedEvidenceTypes[contentType]
	return fmt.Sprintf("%s/%s/%s-%d.%s", config.EvidencePathPrefix, complaintID, complaintID, index, ext)
}

func normalizeType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}

func displayName(f File, i int) string {
	if f.Name != "" {
		return fmt.Sprintf("%q", f.Name)
	}
	return fmt.Sprintf("file %d", i+1)
}

// limitReader fails with models.ErrFileTooLarge once more than remaining bytes are read.
type limitReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.remaining {
		return n, models.ErrFileTooLarge
	}
	return n, err
}
