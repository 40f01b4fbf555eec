package transport

import (
	"errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession/types"

	"github.com/vvka-141/quill/pkg/quill"
)

// classify maps a service error to the driver's failure taxonomy. The
// original error stays wrapped so callers can still reach the concrete
// exception with errors.As.
func classify(err error) error {
	var invalidSession *types.InvalidSessionException
	if errors.As(err, &invalidSession) {
		return &quill.Error{
			Kind:    quill.KindSessionInvalid,
			Message: invalidSession.ErrorMessage(),
			Err:     err,
		}
	}

	var occConflict *types.OccConflictException
	if errors.As(err, &occConflict) {
		return &quill.Error{
			Kind:    quill.KindOccConflict,
			Message: occConflict.ErrorMessage(),
			Err:     err,
		}
	}

	var badRequest *types.BadRequestException
	if errors.As(err, &badRequest) {
		return &quill.Error{
			Kind:    quill.KindClient,
			Message: badRequest.ErrorMessage(),
			Err:     err,
		}
	}

	// Only internal errors and unavailability are transient; every other
	// status is a client problem and retrying it would just repeat it.
	var responseErr *awshttp.ResponseError
	if errors.As(err, &responseErr) {
		kind := quill.KindClient
		switch responseErr.HTTPStatusCode() {
		case http.StatusInternalServerError, http.StatusServiceUnavailable:
			kind = quill.KindTransientService
		}
		return &quill.Error{
			Kind:       kind,
			StatusCode: responseErr.HTTPStatusCode(),
			Err:        err,
		}
	}

	return &quill.Error{Kind: quill.KindClient, Err: err}
}

func clientErrorf(format string, args ...interface{}) error {
	return &quill.Error{
		Kind:    quill.KindClient,
		Message: fmt.Sprintf(format, args...),
	}
}
