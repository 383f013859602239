package view

import "github.com/ardnew/sxview/pkg"

var (
	ErrRun     = pkg.NewError("viewer failed")
	ErrHistory = pkg.NewError("search history unavailable")
)
