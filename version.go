/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package localstore

// Version is the library release version.
const Version = "0.1.0"
