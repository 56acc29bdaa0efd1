// Package files groups the file-facing sub-packages of the pipeline:
//   - filesystem: filesystem abstraction with OS and in-memory providers
//   - scanner: discovery of data files below a root directory
package files
