package domain

// Policy checks run at the start of each operation. They only look at the
// caller and, where ownership matters, the owning user id of the resource.

func RequireAuthenticated(rc RequestContext, action string) error {
	if rc.UserID <= 0 || rc.Role == "" {
		return AuthorizationError{Action: action}
	}
	return nil
}

func RequireRole(rc RequestContext, action string, roles ...string) error {
	if err := RequireAuthenticated(rc, action); err != nil {
		return err
	}
	for _, r := range roles {
		if rc.Role == r {
			return nil
		}
	}
	return AuthorizationError{Action: action, Role: rc.Role}
}

// RequireOwnerOrAdmin allows admins and the user that owns the resource.
func RequireOwnerOrAdmin(rc RequestContext, action string, ownerID ID) error {
	if err := RequireAuthenticated(rc, action); err != nil {
		return err
	}
	if rc.IsAdmin() || rc.UserID == ownerID {
		return nil
	}
	return AuthorizationError{Action: action, Role: rc.Role}
}

// CanBook: only customers create bookings and pay for them.
func CanBook(rc RequestContext) error {
	return RequireRole(rc, "create bookings", RoleCustomer)
}

func CanViewBooking(rc RequestContext, ownerID ID) error {
	return RequireOwnerOrAdmin(rc, "view this booking", ownerID)
}

func CanCancelBooking(rc RequestContext, ownerID ID) error {
	return RequireOwnerOrAdmin(rc, "cancel this booking", ownerID)
}

func CanPay(rc RequestContext, ownerID ID) error {
	if err := RequireRole(rc, "pay for bookings", RoleCustomer); err != nil {
		return err
	}
	if rc.UserID != ownerID {
		return AuthorizationError{Action: "pay for this booking", Role: rc.Role}
	}
	return nil
}

func CanRefund(rc RequestContext, ownerID ID) error {
	return RequireOwnerOrAdmin(rc, "refund this payment", ownerID)
}

// CanManageInventory: partners manage what their partner profile owns,
// admins manage everything.
func CanManageInventory(rc RequestContext, ownerUserID ID) error {
	if err := RequireRole(rc, "manage inventory", RolePartner, RoleAdmin); err != nil {
		return err
	}
	if rc.IsAdmin() || rc.UserID == ownerUserID {
		return nil
	}
	return AuthorizationError{Action: "manage inventory owned by another partner", Role: rc.Role}
}

func CanViewStatistics(rc RequestContext) error {
	return RequireRole(rc, "view statistics", RoleAdmin)
}
