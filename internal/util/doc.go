// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the correspond packages.
//
//   - AtomicWriteFile: crash-safe file writing with fsync and rename
//   - TruncateWidth, PadWidth, StringWidth: display-width aware text fitting
//     for table cells (Arabic and CJK subjects included)
package util
