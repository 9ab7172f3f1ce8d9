// Package types defines the domain entities of the docket dashboard
// (processes, batches, users), the configuration, the Store and source
// interfaces shared by the remote gateway and the local mirror, and the
// standard errors.
package types
