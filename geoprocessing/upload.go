package geoprocessing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"geoflow/pkg/logging"
	"geoflow/workspace"
)

// defaultPartSize bounds each uploaded chunk. The server rejects larger
// parts.
const defaultPartSize int64 = 6 << 20

// Uploader pushes a local file to the service in fixed-size parts for later
// reference by a tool call. Parts carry strictly increasing, contiguous ids
// starting at 1; the commit names every id exactly once; an abandoned
// session is deleted.
type Uploader struct {
	Conn *workspace.Connection

	// BaseURL is the uploads resource of the tool service.
	BaseURL string

	// PartSize overrides the chunk size when non-zero. Tests shrink it.
	PartSize int64
}

func (u *Uploader) partSize() int64 {
	if u.PartSize > 0 {
		return u.PartSize
	}
	return defaultPartSize
}

// Upload registers the file, sends its parts in order, and commits the
// session. It returns the upload id the service assigned. On any failure
// the registered session is deleted before the error surfaces.
func (u *Uploader) Upload(ctx context.Context, path string) (uploadID string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	uploadID, err = u.register(ctx, filepath.Base(path))
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			u.abandon(ctx, uploadID)
		}
	}()

	partIDs, err := u.sendParts(ctx, uploadID, f)
	if err != nil {
		return "", err
	}
	if err = u.commit(ctx, uploadID, partIDs); err != nil {
		return "", err
	}
	logging.Info("upload", "uploaded %s as %s in %d parts", path, uploadID, len(partIDs))
	return uploadID, nil
}

// register announces the intended filename and obtains the upload id.
func (u *Uploader) register(ctx context.Context, filename string) (string, error) {
	params := url.Values{}
	params.Set("itemName", filename)
	resp, err := u.Conn.Post(ctx, u.BaseURL+"/register", params)
	if err != nil {
		return "", &RemoteFailureError{Phase: "submit", Err: fmt.Errorf("registering upload %s: %w", filename, err)}
	}
	item, _ := resp["item"].(map[string]interface{})
	id, _ := item["itemID"].(string)
	if id == "" {
		return "", &InternalError{Message: fmt.Sprintf("upload registration for %s returned no id: %v", filename, resp)}
	}
	return id, nil
}

// sendParts streams the file in sequential chunks with contiguous part ids
// 1..N.
func (u *Uploader) sendParts(ctx context.Context, uploadID string, f io.Reader) ([]int, error) {
	size := u.partSize()
	buf := make([]byte, size)
	var partIDs []int

	for partID := 1; ; partID++ {
		n, err := io.ReadFull(f, buf)
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return nil, err
		}

		params := url.Values{}
		params.Set("partId", strconv.Itoa(partID))
		_, perr := u.Conn.PostFiles(ctx, u.BaseURL+"/"+uploadID+"/uploadPart", params, workspace.FilePart{
			Field:  "file",
			Name:   fmt.Sprintf("part%d", partID),
			Reader: bytes.NewReader(buf[:n]),
		})
		if perr != nil {
			return nil, &RemoteFailureError{Phase: "submit", Err: fmt.Errorf("uploading part %d of %s: %w", partID, uploadID, perr)}
		}
		partIDs = append(partIDs, partID)

		if err == io.ErrUnexpectedEOF {
			break
		}
	}
	return partIDs, nil
}

// commit finalizes the session, naming every part id in order.
func (u *Uploader) commit(ctx context.Context, uploadID string, partIDs []int) error {
	ids := make([]string, len(partIDs))
	for i, id := range partIDs {
		ids[i] = strconv.Itoa(id)
	}
	params := url.Values{}
	params.Set("parts", strings.Join(ids, ","))
	if _, err := u.Conn.Post(ctx, u.BaseURL+"/"+uploadID+"/commit", params); err != nil {
		return &RemoteFailureError{Phase: "finalize", Err: fmt.Errorf("committing upload %s: %w", uploadID, err)}
	}
	return nil
}

// abandon deletes a failed session. Failures are logged, never surfaced;
// the primary error always wins.
func (u *Uploader) abandon(ctx context.Context, uploadID string) {
	if _, err := u.Conn.Post(context.WithoutCancel(ctx), u.BaseURL+"/"+uploadID+"/delete", url.Values{}); err != nil {
		logging.Error("upload", err, "failed to delete abandoned upload %s", uploadID)
	} else {
		logging.Warn("upload", "deleted abandoned upload %s", uploadID)
	}
}
