package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"eventdesk/internal/apperr"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	folders map[string]string
	calls   []string
	putBody string
	putType string
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{folders: map[string]string{}}
}

func (f *fakeStorage) EnsureFolder(_ context.Context, parentID, name string) (string, error) {
	f.calls = append(f.calls, "folder:"+parentID+"/"+name)
	key := parentID + "/" + name
	if id, ok := f.folders[key]; ok {
		return id, nil
	}
	f.folders[key] = key
	return key, nil
}

func (f *fakeStorage) Put(_ context.Context, folderID, name, contentType string, body io.Reader) (string, error) {
	f.calls = append(f.calls, "put:"+folderID+"/"+name)
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.putBody = string(b)
	f.putType = contentType
	return "file-1", nil
}

func (f *fakeStorage) Share(_ context.Context, fileID string) (string, error) {
	f.calls = append(f.calls, "share:"+fileID)
	return "https://files.example.com/" + fileID, nil
}

func TestFolderPath(t *testing.T) {
	cases := []struct {
		email, event string
		want         []string
	}{
		{"ada@example.com", "Ada & Tunde 2026", []string{"ada@example.com", "Ada _ Tunde 2026"}},
		{"ada@example.com", "../../etc/passwd", []string{"ada@example.com", ".._.._etc_passwd"}},
		{"  ", "///", []string{"untitled", "untitled"}},
		{"ada@example.com", strings.Repeat("x", 100), []string{"ada@example.com", strings.Repeat("x", MaxSegmentLen)}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FolderPath(c.email, c.event), c.event)
	}
}

func TestFolderPathIsDeterministic(t *testing.T) {
	assert.Equal(t, FolderPath("a@b.c", "Gala"), FolderPath("a@b.c", "Gala"))
}

func TestValidateRejectsBeforeNetwork(t *testing.T) {
	st := newFakeStorage()
	r := &Relay{Storage: st, RootFolder: "root", Log: zerolog.Nop()}

	cases := map[string]File{
		"too large":  {ContentType: "image/png", Size: MaxFileSize + 1, Body: strings.NewReader("x")},
		"wrong type": {ContentType: "image/gif", Size: 10, Body: strings.NewReader("x")},
		"empty":      {ContentType: "image/png", Size: 0, Body: strings.NewReader("")},
		"no type":    {Size: 10, Body: strings.NewReader("x")},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Upload(context.Background(), "a@b.c", "Gala", f)
			assert.True(t, apperr.Is(err, apperr.KindUnprocessable))
		})
	}
	assert.Empty(t, st.calls)
}

func TestValidateAcceptsCeilingAndParams(t *testing.T) {
	assert.NoError(t, Validate(File{ContentType: "application/pdf", Size: MaxFileSize}))
	assert.NoError(t, Validate(File{ContentType: "image/JPEG; charset=binary", Size: 1}))
}

func TestUploadRelaysToStorage(t *testing.T) {
	st := newFakeStorage()
	fixed := time.Unix(1760000000, 0)
	r := &Relay{Storage: st, RootFolder: "root", Now: func() time.Time { return fixed }, Log: zerolog.Nop()}

	res, err := r.Upload(context.Background(), "ada@example.com", "Gala Night", File{
		Name: "card.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("\x89PNG"),
	})
	require.NoError(t, err)
	assert.Equal(t, Result{URL: "https://files.example.com/file-1", FileID: "file-1"}, res)
	assert.Equal(t, "\x89PNG", st.putBody)
	assert.Equal(t, "image/png", st.putType)
	assert.Equal(t, []string{
		"folder:root/ada@example.com",
		"folder:root/ada@example.com/Gala Night",
		"put:root/ada@example.com/Gala Night/invitation-card-1760000000.png",
		"share:file-1",
	}, st.calls)
}

func TestUploadProviderFailureIsUpstream(t *testing.T) {
	st := newFakeStorage()
	st.putErr = errors.New("quota exceeded")
	r := &Relay{Storage: st, RootFolder: "root", Log: zerolog.Nop()}

	_, err := r.Upload(context.Background(), "a@b.c", "Gala", File{ContentType: "application/pdf", Size: 3, Body: strings.NewReader("pdf")})
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.Equal(t, "storage upload failed", apperr.PublicMessage(err))
}

func TestUploadWithoutStorage(t *testing.T) {
	r := &Relay{Log: zerolog.Nop()}
	_, err := r.Upload(context.Background(), "a@b.c", "Gala", File{ContentType: "application/pdf", Size: 3, Body: strings.NewReader("pdf")})
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	assert.Equal(t, "uploads are not configured", apperr.PublicMessage(err))

	_, err = r.Upload(context.Background(), "a@b.c", "Gala", File{ContentType: "text/plain", Size: 3, Body: strings.NewReader("txt")})
	assert.True(t, apperr.Is(err, apperr.KindUnprocessable), "file checks run before the storage check")
}
