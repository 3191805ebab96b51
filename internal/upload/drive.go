package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveStorage stores files in Google Drive under a service account.
type DriveStorage struct {
	svc *drive.Service
}

func NewDriveStorage(ctx context.Context, credentialsJSON string, opts ...option.ClientOption) (*DriveStorage, error) {
	if credentialsJSON != "" {
		opts = append([]option.ClientOption{
			option.WithCredentialsJSON([]byte(credentialsJSON)),
			option.WithScopes(drive.DriveScope),
		}, opts...)
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &DriveStorage{svc: svc}, nil
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func (d *DriveStorage) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), folderMimeType)
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escapeQuery(parentID))
	}

	list, err := d.svc.Files.List().
		Q(q).
		Fields("files(id)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		folder.Parents = []string{parentID}
	}
	created, err := d.svc.Files.Create(folder).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (d *DriveStorage) Put(ctx context.Context, folderID, name, contentType string, body io.Reader) (string, error) {
	f := &drive.File{Name: name, Parents: []string{folderID}}
	created, err := d.svc.Files.Create(f).
		Media(body, googleapi.ContentType(contentType)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

// Share grants anyone-with-the-link read access and returns a direct view URL.
func (d *DriveStorage) Share(ctx context.Context, fileID string) (string, error) {
	_, err := d.svc.Permissions.Create(fileID, &drive.Permission{Type: "anyone", Role: "reader"}).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	return "https://drive.google.com/uc?export=view&id=" + fileID, nil
}
