/*
Package ports defines the driven ports (interfaces) of a nuex store.

These interfaces decouple the store from external implementations, allowing commits to be
recorded in various backends.

# Key Interfaces

  - Journal: Records completed commits (e.g., in Memory or a Redis stream).
*/
package ports
