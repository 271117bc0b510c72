// Package security contains the input validation core for fsgate:
// the path sandbox that confines every operation to a single root
// directory, and the extension policy that restricts which file types
// may be read, written, or deleted.
//
// Both validators are pure over the filesystem: they may stat the tree
// to resolve symbolic links but never mutate it. Error messages echo
// only the caller-supplied input, never resolved internal paths
// (CWE-22 / information-leak avoidance).
package security
