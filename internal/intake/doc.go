// Package intake turns a recipe document into the ordered, read-only slice of
// records the front end displays.
//
// A load runs in two sequential phases. The validate phase walks raw entries
// in source order, rejecting entries whose image fails the format or
// reachability check and skipping entries whose durations do not parse. The
// bounded policy stops as soon as the limit is reached and fails the load when
// the document runs out first; the full policy validates every entry. The
// fetch phase then materializes each accepted record's image. A fetch failure
// keeps the record and marks it unavailable.
//
// Progress is reported after every unit of work in both phases and the
// caller's checkpoint hook runs right after, so a host UI can stay responsive
// or stop the load. Cancelling during the fetch phase returns the accepted
// records with the unfetched ones listed as pending for just-in-time fetching.
package intake
