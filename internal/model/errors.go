package model

import "fmt"

var (
	ErrNotFound       = fmt.Errorf("not found")
	ErrAlreadyExists  = fmt.Errorf("already exists")
	ErrNotOwner       = fmt.Errorf("viewer is not the record owner")
	ErrBadKingdom     = fmt.Errorf("bad kingdom")
	ErrBadCredentials = fmt.Errorf("bad email or password")
)
