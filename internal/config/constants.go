package config

import "time"

// Base application details
const AppName = "gotoflash"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "gotoflash.log"

// Flash defaults
const DefaultDuration = 1.0 // seconds
const DefaultScope = "region.yellowish"
const DefaultStyle = "fill"
const DefaultMarkStyle = "squiggly_underline"
const DefaultJumpOutOfQuiet = true

// Touch matching modes
const TouchBegin = "begin"
const TouchContains = "contains"

// Demo host
const DefaultTabWidth = 4
const DefaultLoadDelay = 150 * time.Millisecond
const RelintDebounce = 300 * time.Millisecond
