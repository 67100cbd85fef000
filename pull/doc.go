/*
Package pull implements the gesture state machine behind pull-to-refresh and
load-more containers, independent of any rendering toolkit.

A [Controller] owns two [Machine] values, one per edge of a scrollable
container: the top edge refreshes and the bottom edge loads more. The hosting
container feeds it pointer events together with whether its content rests at
the top or bottom boundary, and reports when scrolling settles. The machines
move through [StateIdle], [StatePullToLoad], [StateReleaseToLoad] and
[StateLoading], invoke the registered callback exactly once per entry into
[StateLoading], and instruct a [Presenter] how far the header or footer is
revealed.

Only one edge may load at a time. A trigger that finds the container busy is
rejected with [ErrorRefreshing] or [ErrorLoadingMore], naming the edge that
holds it.

Nothing in this package is safe for concurrent use. Callers finishing work on
another goroutine must marshal [Controller.RefreshCompleted] and
[Controller.LoadMoreCompleted] back onto the event goroutine.
*/
package pull
