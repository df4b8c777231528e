// Package errors provides the structured error type used across trenchturn.
//
// Errors carry a Code, a caller-facing Message, an optional Cause and
// free-form Meta. Codes survive wrapping, so a repository NotFound is still
// a NotFound after the orchestrator adds context to it.
//
// # Basic Usage
//
//	err := errors.NotFound("session not found").WithMeta("session_id", id)
//
//	if err := repo.Append(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to record turn events")
//	}
//
// Checking:
//
//	if errors.IsAlreadyExists(err) {
//	    // the entity already holds an action this turn
//	}
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("session_id", input.SessionID, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # gRPC
//
// Handlers return errors.ToGRPCError(err); clients turn status errors back
// with errors.FromGRPCError(err). Meta travels as a structpb.Struct detail.
//
// The turn engine itself never returns errors for budget overspend (that is
// modelled as debt) and never reports phase-ordering problems at runtime;
// those are prevented by the pipeline's call order.
package errors
