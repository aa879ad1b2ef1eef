// Package form implements the create-only CronTab workflow behind the
// console form and YAML editor.
//
// A [Form] holds the ephemeral input state (name, cronSpec, image,
// replicas, YAML text), validates it synchronously and issues at most one
// create request at a time through a [Creator]. On success it hands the
// console path of the new object to a [Navigator]; on failure it keeps a
// localized error message and returns to idle so the user can resubmit.
//
// The YAML editor is a capability of the same component, enabled with
// [Options.YAMLEditor]. The active namespace, the cluster client, the
// navigator and the translator are explicit construction inputs.
//
//	idle -> submitting -> succeeded
//	              \-----> idle (with error)
package form
