package vision

import "errors"

// ErrGoCVDisabled возвращается реализациями на OpenCV при сборке без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")
