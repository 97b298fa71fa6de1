package services

import "errors"

// Rule violations; handlers answer these with 400.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidMemberCount = errors.New("at least one member must be present or selected")
	ErrInvalidMember      = errors.New("unknown member")
	ErrInvalidUsage       = errors.New("quantity used must be between 0 and quantity purchased")
	ErrInvalidQuantity    = errors.New("quantity purchased must be greater than zero")
	ErrInvalidSlot        = errors.New("end time must be after start time")
	ErrInvalidDate        = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNotInventory       = errors.New("expense is not an equipment purchase")
)

// State conflicts; handlers answer these with 409.
var (
	ErrAlreadyPaid      = errors.New("share is already paid")
	ErrDuplicateFee     = errors.New("member already has a joining fee")
	ErrSlotUnavailable  = errors.New("slot is not available")
	ErrSlotOverlap      = errors.New("slot overlaps an existing booking")
	ErrMemberHasDues    = errors.New("member has unpaid shares")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// ErrNotOwner is returned when a member acts on something that belongs to someone else.
var ErrNotOwner = errors.New("not allowed")

// ErrInactiveUser is returned for deactivated logins; handlers answer with 403.
var ErrInactiveUser = errors.New("user is inactive")
