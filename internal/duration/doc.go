// Package duration converts ISO-8601 durations from recipe documents into the
// zero-padded HH:MM form shown in listings.
//
// Hours are unbounded (PT30H renders as 30:00) and minutes always stay in the
// 0-59 range. Years and months are ignored because they have no fixed length;
// weeks and days fold into hours.
package duration
