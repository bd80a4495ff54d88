// Package generation defines the boundary interfaces for the external
// AI/LLM collaborators: passage-and-keypoint generation, recall text
// refinement, and narrative feedback. The scoring engine never calls these
// services; they run before and after it, and their failures never affect
// a score already computed.
package generation
