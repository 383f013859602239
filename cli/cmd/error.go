package cmd

import "github.com/ardnew/sxview/pkg"

var (
	ErrParse       = pkg.NewError("parse document")
	ErrConvert     = pkg.NewError("convert document")
	ErrFormat      = pkg.NewError("format output")
	ErrQuery       = pkg.NewError("query documents")
	ErrView        = pkg.NewError("view documents")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
