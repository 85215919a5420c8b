package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/trafficrouter/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorJSON(log *zap.Logger, w http.ResponseWriter, r *http.Request, status int, message string) {
	var resp errorResponse
	resp.Error.Code = http.StatusText(status)
	resp.Error.Message = message
	if err := writeJSON(w, status, envelope{"error": resp.Error}, nil); err != nil {
		log.Error("writing error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func BadRequestResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	errorJSON(log, w, r, http.StatusBadRequest, err.Error())
}

func NotFoundResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	errorJSON(log, w, r, http.StatusNotFound, err.Error())
}

func ServerErrorResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	log.Error("internal server error", zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	errorJSON(log, w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

// getStatusCode maps the error code carried by util.Error to an http status.
func getStatusCode(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var ierr *util.Error
	if !errors.As(err, &ierr) {
		ServerErrorResponse(log, w, r, err)
		return
	}
	switch ierr.Code() {
	case util.ErrNotFound:
		NotFoundResponse(log, w, r, err)
	case util.ErrBadParamInput:
		BadRequestResponse(log, w, r, err)
	default:
		ServerErrorResponse(log, w, r, err)
	}
}

var validate = newValidator()

type requestValidator struct {
	v     *validator.Validate
	trans ut.Translator
}

func newValidator() *requestValidator {
	v := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(v, trans)
	return &requestValidator{v: v, trans: trans}
}

// Struct validates req and returns the translated messages joined in one error.
func (rv *requestValidator) Struct(req any) error {
	err := rv.v.Struct(req)
	if err == nil {
		return nil
	}
	vv := translateError(err, rv.trans)
	vvString := make([]string, 0, len(vv))
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return fmt.Errorf("validation error: %v", vvString)
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}
