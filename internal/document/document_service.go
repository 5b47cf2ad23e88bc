package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"ippis-portal/internal/backend"
	documenterrors "ippis-portal/internal/document/errors"
	"ippis-portal/internal/events"
	"ippis-portal/internal/shared/contextutil"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const resourceName = "document"

//go:generate mockgen -source=document_service.go -destination=mock/document_service_mock.go -package=mock
type Service interface {
	Upload(ctx context.Context, in UploadInput) (Document, error)
	List(ctx context.Context, q backend.ListQuery) ([]Document, backend.ListMeta, error)
	Delete(ctx context.Context, id string) error
}

type Policy struct {
	MaxSize      int64
	AllowedMIMEs []string
}

type service struct {
	client    *backend.Client
	resource  *backend.Resource[Document]
	policy    Policy
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(client *backend.Client, policy Policy, publisher events.Publisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("document.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.service")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &service{
		client:    client,
		resource:  backend.NewResource[Document](client, resourceName, "/documents"),
		policy:    policy,
		publisher: publisher,
		logger:    l,
	}
}

// Upload reads at most MaxSize bytes, sniffs the content type from the bytes themselves and
// forwards an allowed file to the backend as multipart.
func (s *service) Upload(ctx context.Context, in UploadInput) (Document, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Category = strings.TrimSpace(in.Category)
	switch {
	case in.EmployeeID == "":
		return Document{}, documenterrors.ErrEmployeeRequired
	case in.Category == "":
		return Document{}, documenterrors.ErrCategoryRequired
	case in.Content == nil:
		return Document{}, documenterrors.ErrFileRequired
	}

	data, err := io.ReadAll(io.LimitReader(in.Content, s.policy.MaxSize+1))
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Document{}, documenterrors.ErrEmptyFile
	}
	if int64(len(data)) > s.policy.MaxSize {
		log.Warn("upload too large", zap.String("file_name", in.FileName), zap.Int64("limit", s.policy.MaxSize))
		return Document{}, documenterrors.ErrFileTooLarge
	}

	mt := mimetype.Detect(data)
	if !s.allowed(mt) {
		log.Warn("upload type rejected", zap.String("file_name", in.FileName), zap.String("mime", mt.String()))
		return Document{}, documenterrors.ErrUnsupportedType
	}

	body, contentType, err := encodeMultipart(in, data, mt)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	if _, err := s.client.Do(ctx, backend.Request{
		Method:      http.MethodPost,
		Path:        "/documents",
		Resource:    resourceName,
		RawBody:     body,
		ContentType: contentType,
	}, &doc); err != nil {
		log.Error("forward document failed", zap.String("employee_id", in.EmployeeID), zap.Error(err))
		return Document{}, err
	}

	ev := events.NewActivityEvent(ctx, events.DocumentUploaded, resourceName, doc.ID,
		fmt.Sprintf("Uploaded %s (%s) for employee %s", doc.FileName, in.Category, in.EmployeeID))
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Error("publish document event failed", zap.String("document_id", doc.ID), zap.Error(err))
	}

	log.Info("document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("mime", mt.String()),
		zap.Int("size", len(data)),
	)
	return doc, nil
}

func (s *service) allowed(mt *mimetype.MIME) bool {
	for _, a := range s.policy.AllowedMIMEs {
		if mt.Is(strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}

func encodeMultipart(in UploadInput, data []byte, mt *mimetype.MIME) (*bytes.Buffer, string, error) {
	name := filepath.Base(strings.TrimSpace(in.FileName))
	if name == "" || name == "." || name == "/" {
		name = "document" + mt.Extension()
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	_ = w.WriteField("employee_id", in.EmployeeID)
	_ = w.WriteField("category", in.Category)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", mt.String())
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("encode upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("encode upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode upload: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func (s *service) List(ctx context.Context, q backend.ListQuery) ([]Document, backend.ListMeta, error) {
	return s.resource.List(ctx, q)
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if err := s.resource.Delete(ctx, id); err != nil {
		if backend.IsNotFound(err) {
			return documenterrors.ErrDocumentNotFound
		}
		return err
	}

	ev := events.NewActivityEvent(ctx, events.RecordDeleted, resourceName, id, "Deleted document "+id)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Error("publish document event failed", zap.String("document_id", id), zap.Error(err))
	}
	return nil
}
