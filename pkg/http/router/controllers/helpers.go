package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"meetpoint/pkg/util"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

// writeJSON marshals data structure to encoded JSON response.
func (api *meetingAPI) writeJSON(w http.ResponseWriter, status int, data envelope,
	headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	js = append(js, '\n')
	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		api.log.Error("failed to write JSON response", zap.Error(err))
		return err
	}

	return nil
}

func (api *meetingAPI) errorResponseJSON(w http.ResponseWriter, r *http.Request, status int,
	code string, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message

	js, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
}

func (api *meetingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponseJSON(w, r, http.StatusBadRequest, "bad_request", err.Error())
}

func (api *meetingAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	api.errorResponseJSON(w, r, http.StatusNotFound, "not_found", "the requested resource could not be found")
}

func (api *meetingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.String("path", r.URL.Path), zap.Error(err))
	api.errorResponseJSON(w, r, http.StatusInternalServerError, "internal_error", util.MessageInternalServerError)
}

// getStatusCode maps a domain error to its HTTP response by error code.
func (api *meetingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *util.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Code() {
		case util.ErrBadParamInput:
			api.BadRequestResponse(w, r, err)
		case util.ErrNotFound:
			api.NotFoundResponse(w, r)
		default:
			api.ServerErrorResponse(w, r, err)
		}
		return
	}
	api.ServerErrorResponse(w, r, err)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			translatedErr := fmt.Errorf("%s", e.Translate(trans))
			errs = append(errs, translatedErr)
		}
		return errs
	}
	return []error{err}
}
