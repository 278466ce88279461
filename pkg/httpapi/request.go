package httpapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/clubworks/go-formflow/pkg/filestore"
	"github.com/clubworks/go-formflow/pkg/submission"
)

const waiverKey = "paymentWaiver"

// parseRegistration extracts answers and payment material from a
// multipart registration request.
func parseRegistration(r *http.Request) (map[string]any, submission.Payment, error) {
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		return nil, submission.Payment{}, fmt.Errorf("parse multipart form: %w", err)
	}

	answers := make(map[string]any)
	var payment submission.Payment

	for key, values := range r.MultipartForm.Value {
		switch key {
		case submission.AnswerKeyTransactionID:
			if len(values) > 0 {
				payment.Reference = values[0]
			}
		case waiverKey:
			payment.Waiver = len(values) > 0 && values[0] == "true"
		default:
			if len(values) == 1 {
				answers[key] = values[0]
			} else if len(values) > 1 {
				answers[key] = values
			}
		}
	}

	for key, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		blob, err := readUpload(headers[0])
		if err != nil {
			return nil, submission.Payment{}, fmt.Errorf("read upload %s: %w", key, err)
		}
		if key == submission.AnswerKeyPaymentProof {
			payment.Proof = blob
		} else {
			answers[key] = blob
		}
	}

	return answers, payment, nil
}

func readUpload(header *multipart.FileHeader) (*filestore.File, error) {
	part, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		return nil, err
	}
	return &filestore.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	}, nil
}
