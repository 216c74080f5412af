package listings

// schemaSQL initializes the listing table.
const schemaSQL = `
    DEFINE TABLE IF NOT EXISTS listing SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS listing_id ON listing TYPE string;
    DEFINE FIELD IF NOT EXISTS title ON listing TYPE string;
    DEFINE FIELD IF NOT EXISTS price ON listing TYPE float;
    DEFINE FIELD IF NOT EXISTS category ON listing TYPE string;
    DEFINE FIELD IF NOT EXISTS description ON listing TYPE string;
    DEFINE FIELD IF NOT EXISTS photos ON listing TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS location ON listing TYPE string;
    DEFINE FIELD IF NOT EXISTS condition ON listing TYPE string;
    DEFINE FIELD IF NOT EXISTS seller_id ON listing TYPE string;
    DEFINE FIELD IF NOT EXISTS seller_name ON listing TYPE string;
    DEFINE FIELD IF NOT EXISTS seller_rating ON listing TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS created_at ON listing TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS boosted_until ON listing TYPE option<datetime>;
    DEFINE FIELD IF NOT EXISTS island ON listing TYPE string DEFAULT 'hawaii';
    DEFINE FIELD IF NOT EXISTS negotiable ON listing TYPE bool DEFAULT false;

    DEFINE INDEX IF NOT EXISTS listing_id_unique ON listing FIELDS listing_id UNIQUE;
    DEFINE INDEX IF NOT EXISTS listing_category ON listing FIELDS category;
    DEFINE INDEX IF NOT EXISTS listing_location ON listing FIELDS location;
`
