package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskbridge.backend/internal/domain/authz"
	"taskbridge.backend/internal/domain/entities"
	domainerrors "taskbridge.backend/internal/domain/errors"
	"taskbridge.backend/internal/domain/repositories"
	"taskbridge.backend/pkg/crypto"
	"taskbridge.backend/pkg/logger"
)

// ObjectStorage mirrors the bucket used for attachment replicas and signed
// download links. The database copy stays authoritative; the bucket copy is
// best effort.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	SignedDownloadURL(key string) (string, error)
}

// FileUsecase handles task attachment business logic
type FileUsecase struct {
	taskRepo repositories.TaskRepository
	fileRepo repositories.TaskFileRepository
	storage  ObjectStorage
}

// NewFileUsecase creates a new file usecase. storage may be nil when no
// bucket is configured; downloads then always come from the database.
func NewFileUsecase(
	taskRepo repositories.TaskRepository,
	fileRepo repositories.TaskFileRepository,
	storage ObjectStorage,
) *FileUsecase {
	return &FileUsecase{
		taskRepo: taskRepo,
		fileRepo: fileRepo,
		storage:  storage,
	}
}

// Upload stores an attachment on the task. The row is written first; the
// bucket replica follows and its failure only logs.
func (u *FileUsecase) Upload(ctx context.Context, caller authz.Caller, taskID uuid.UUID, fileName, mimeType string, data []byte) (*entities.TaskFileInfo, error) {
	if len(data) == 0 {
		return nil, domainerrors.BadRequest("no file provided")
	}

	if err := u.authorizeTaskAccess(ctx, caller, taskID); err != nil {
		return nil, err
	}

	fileKey, err := buildFileKey(taskID, fileName)
	if err != nil {
		return nil, err
	}

	file := &entities.TaskFile{
		ID:        uuid.New(),
		TaskID:    taskID,
		FileName:  fileName,
		FileKey:   fileKey,
		MimeType:  mimeType,
		Size:      int64(len(data)),
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := u.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	if u.storage != nil {
		if err := u.storage.Upload(ctx, fileKey, mimeType, data); err != nil {
			logger.Warn(ctx, "Attachment replica upload failed",
				zap.String("file_key", fileKey), zap.Error(err))
		}
	}

	return u.fileInfo(file), nil
}

// List returns the task's attachment metadata with download links
func (u *FileUsecase) List(ctx context.Context, caller authz.Caller, taskID uuid.UUID) ([]*entities.TaskFileInfo, error) {
	if err := u.authorizeTaskAccess(ctx, caller, taskID); err != nil {
		return nil, err
	}

	files, err := u.fileRepo.ListByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	infos := make([]*entities.TaskFileInfo, 0, len(files))
	for _, f := range files {
		infos = append(infos, u.fileInfo(f))
	}
	return infos, nil
}

// Download returns the full attachment. The database row carries the bytes;
// an empty row falls back to the bucket replica when one is configured.
func (u *FileUsecase) Download(ctx context.Context, caller authz.Caller, taskID, fileID uuid.UUID) (*entities.TaskFile, error) {
	if err := u.authorizeTaskAccess(ctx, caller, taskID); err != nil {
		return nil, err
	}

	file, err := u.fileRepo.GetByID(ctx, taskID, fileID)
	if err != nil {
		return nil, err
	}

	if len(file.Data) == 0 && u.storage != nil {
		data, err := u.storage.Download(ctx, file.FileKey)
		if err != nil {
			return nil, err
		}
		file.Data = data
	}

	return file, nil
}

// SignedURL resolves a download link for one attachment: a time-limited
// bucket URL when storage is configured, otherwise the API download path.
func (u *FileUsecase) SignedURL(ctx context.Context, caller authz.Caller, taskID, fileID uuid.UUID) (string, error) {
	if err := u.authorizeTaskAccess(ctx, caller, taskID); err != nil {
		return "", err
	}

	file, err := u.fileRepo.GetByID(ctx, taskID, fileID)
	if err != nil {
		return "", err
	}

	return u.fileInfo(file).DownloadURL, nil
}

func (u *FileUsecase) authorizeTaskAccess(ctx context.Context, caller authz.Caller, taskID uuid.UUID) error {
	task, err := u.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	return authz.Authorize(caller, authz.CapOwnerOrAdmin, task.ClientID)
}

// fileInfo builds the metadata projection. The download link is a signed
// bucket URL when storage is configured, otherwise the API download path.
func (u *FileUsecase) fileInfo(file *entities.TaskFile) *entities.TaskFileInfo {
	info := &entities.TaskFileInfo{
		ID:        file.ID,
		FileName:  file.FileName,
		MimeType:  file.MimeType,
		Size:      file.Size,
		CreatedAt: file.CreatedAt,
	}
	if u.storage != nil {
		if url, err := u.storage.SignedDownloadURL(file.FileKey); err == nil {
			info.DownloadURL = url
			return info
		}
	}
	info.DownloadURL = fmt.Sprintf("/api/v1/tasks/%s/files/%s/download", file.TaskID, file.ID)
	return info
}

// buildFileKey derives the bucket key: task id prefix groups a task's files,
// the random suffix keeps equal file names apart.
func buildFileKey(taskID uuid.UUID, fileName string) (string, error) {
	suffix, err := crypto.GenerateFileKeySuffix()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s-%s", taskID, suffix, sanitizeFileName(fileName)), nil
}

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		name = "file"
	}
	return name
}
