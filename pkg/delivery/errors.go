package delivery

import "errors"

var (
	ErrBuilderNil  = errors.New("delivery: builder cannot be nil")
	ErrRendererNil = errors.New("delivery: renderer cannot be nil")
	ErrSenderNil   = errors.New("delivery: email sender cannot be nil")

	ErrBuildFailed  = errors.New("delivery: failed to build report")
	ErrRenderFailed = errors.New("delivery: failed to render report")
	ErrSendFailed   = errors.New("delivery: failed to send report email")
)
