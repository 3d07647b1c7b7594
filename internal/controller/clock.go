package controller

import "time"

// nowFunc is swapped by tests that pin the clock.
var nowFunc = time.Now
