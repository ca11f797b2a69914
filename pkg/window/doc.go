// Package window implements windowing constructs. In the world of data processing on an unbounded stream, Windowing
// is a concept of grouping data using temporal boundaries. We use event-time to discover temporal boundaries on an
// unbounded, infinite stream.
//
// Only Fixed windows (sometimes called tumbling windows) are supported. A window is identified by
// floor(eventTime / length), is left inclusive and right exclusive, and is tracked per key:
//   * Assign - map the event time of a record to its interval window
//   * Admit  - decide whether the record opens a window, appends to the open window of its key,
//              or is dropped because its window has already been closed
//
// There is no allowed lateness. The close boundary of a key is the largest event time seen for that key, so a window
// closes as soon as a record of the same key lands on or after its end, and a record whose window ends on or before
// the close boundary is dropped.
package window
