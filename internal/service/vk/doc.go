// Package vk implements the album download engine.
// A run parses the album reference, looks the album up, allocates a fresh
// destination folder, enumerates photos page by page and saves the best
// variant of every photo as image_<n>.jpg. Failures of a single photo are
// recorded and skipped, setup and enumeration failures abort the run.
package vk
