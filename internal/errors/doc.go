// Package errors provides structured errors for roster-api.
//
// Every error carries a Code that maps onto gRPC and HTTP statuses, and may
// carry a Reason naming the domain failure:
//
//	err := errors.DuplicateMovef("move %q already assigned", name)
//	errors.IsAlreadyExists(err) // true
//	errors.IsDuplicateMove(err) // true
//
// Wrapping keeps both code and reason:
//
//	if err := repo.UpdateFields(ctx, input); err != nil {
//	    return errors.Persistence(err, "failed to save moves")
//	}
//
// Config and input validation goes through the ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("user_id", input.UserID, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// Handlers return errors.ToGRPCError(err); the reason is attached as an
// errdetails.ErrorInfo in the ErrorDomain and restored by FromGRPCError.
package errors
