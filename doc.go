// Package tsplot plots the columns of time indexed data frames.
//
//
// Data Representation: Data Frames
//
// A DataFrame is an ordered index of time.Time values together with an
// ordered set of named, typed columns. Data frames are produced by the
// loaders in package source (CSV, SQL, Arrow) or from a "slice of
// measurements" like
//      var Data []Measurement
//      type Measurement struct {
//          Date        time.Time
//          Temperature float64
//          Rain        bool
//      }
// via NewDataFrameFrom(name, Data, "Date").
//
//
// Types of Data Elements
//
// Internaly all columns are stored as []float64:
//     Float    continous data, stored as is
//     Int      discrete data, stored as is
//     Bool     stored as 0 and 1
//     String   stored as index into a StringPool
//     Time     stored as seconds since the Unix epoch
// Missing values are NaN.
//
//
// Plotting
//
// A Plotter draws one figure per column through a Backend:
//      p := tsplot.NewPlotter(backend)
//      p.TimeSeries(df, "Temperature", "")          // one column
//      p.AllTimeSeries(df, nil, 10)                  // numeric and bool columns
//      p.AllDataFrames(frames, selection, 10)        // many data frames
// Each figure is acquired from the backend, drawn, shown and released
// within a single call.
//
// Backends live in package backend/gonum, backend/gochart and
// backend/term and register themselves by name; the Recorder in this
// package records the draw instructions instead of drawing them.
package tsplot
